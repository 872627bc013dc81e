package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"time"

	"forecastai/analytics"
	"forecastai/database"
	"forecastai/middleware"
	"forecastai/models"
	"forecastai/utils"

	"github.com/gofiber/fiber/v2"
)

// overridesPayload is the optional JSON form part carrying per-SKU maps.
type overridesPayload struct {
	UnitCost     map[string]float64 `json:"unit_cost"`
	UnitPrice    map[string]float64 `json:"unit_price"`
	CurrentStock map[string]float64 `json:"current_stock"`
	LeadTimeDays map[string]float64 `json:"lead_time_days"`
}

// HandleUploadAndProcess runs the full analytics pipeline on an uploaded
// sales extract and returns forecasts, inventory recommendations, prioritized
// actions and ROI projections in one response.
// POST /api/forecast/upload-and-process
func HandleUploadAndProcess(c *fiber.Ctx) error {
	userID, email, ok := middleware.ExtractClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	// Trial gating is fail-open: if the status read itself errors we let the
	// request through rather than lock out a paying user on a DB hiccup.
	if endsAt, err := database.TrialEndsAt(context.Background(), userID); err != nil {
		log.Printf("⚠️  Trial status check failed for %s, allowing access: %v", userID, err)
	} else if time.Now().After(endsAt) {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"success": false,
			"message": fmt.Sprintf("Free trial ended on %s. Please upgrade to continue.", endsAt.Format("2006-01-02")),
		})
	}

	table, filename, err := readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	log.Printf("📁 FILE UPLOAD by %s: %s (%d rows)", email, filename, len(table.Rows))

	opts := analytics.Options{FileName: filename}

	if from := c.Query("from_date"); from != "" {
		t, ok := analytics.ParseFlexibleDate(from)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid from_date format"})
		}
		opts.Window.From = &t
	}
	if to := c.Query("to_date"); to != "" {
		t, ok := analytics.ParseFlexibleDate(to)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid to_date format"})
		}
		opts.Window.To = &t
	}
	if daysStr := c.Query("forecast_days"); daysStr != "" {
		if days, err := strconv.Atoi(daysStr); err == nil && days > 0 {
			opts.ForecastDays = days
		}
	}

	if raw := c.FormValue("overrides"); raw != "" {
		var ov overridesPayload
		if err := json.Unmarshal([]byte(raw), &ov); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid overrides JSON"})
		}
		opts.Overrides = analytics.Overrides{
			UnitCost:     ov.UnitCost,
			UnitPrice:    ov.UnitPrice,
			CurrentStock: ov.CurrentStock,
			LeadTimeDays: ov.LeadTimeDays,
		}
	}

	result, err := analytics.Process(table, opts)
	if err != nil {
		var schemaErr *analytics.SchemaError
		var emptyErr *analytics.EmptyDatasetError
		switch {
		case errors.As(err, &schemaErr), errors.As(err, &emptyErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
		default:
			log.Printf("❌ Pipeline error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Processing failed: " + err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("✅ Processed %d records successfully!", result.Summary.TotalRecords),
		"data":    result,
	})
}

// HandlePreview inspects an upload without running the pipeline: detected
// columns, date range, top products, and sample rows.
// POST /api/forecast/preview
func HandlePreview(c *fiber.Ctx) error {
	table, filename, err := readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	preview := models.UploadPreview{
		RecordCount:     len(table.Rows),
		Columns:         table.Headers,
		DetectedColumns: map[string]string{},
		DateRange:       map[string]string{},
	}

	detected := map[string]int{}
	for _, concept := range []string{"date", "itemname", "sku", "quantity"} {
		if idx := analytics.DetectColumn(table.Headers, concept); idx >= 0 {
			detected[concept] = idx
			preview.DetectedColumns[concept] = table.Headers[idx]
		}
	}

	if dateIdx, ok := detected["date"]; ok {
		var minDate, maxDate time.Time
		for i := range table.Rows {
			d, ok := analytics.ParseFlexibleDate(table.Cell(i, dateIdx))
			if !ok {
				continue
			}
			if minDate.IsZero() || d.Before(minDate) {
				minDate = d
			}
			if maxDate.IsZero() || d.After(maxDate) {
				maxDate = d
			}
		}
		if !minDate.IsZero() {
			preview.DateRange["start"] = minDate.Format("2006-01-02")
			preview.DateRange["end"] = maxDate.Format("2006-01-02")
		}
	}

	if qtyIdx, qok := detected["quantity"]; qok {
		if itemIdx, iok := detected["itemname"]; iok {
			preview.TopProducts = topProductsPreview(table, itemIdx, qtyIdx)
		}
	}

	for i := 0; i < len(table.Rows) && i < 5; i++ {
		sample := map[string]string{}
		for j, h := range table.Headers {
			v := table.Cell(i, j)
			if len(v) > 50 {
				v = v[:50]
			}
			sample[h] = v
		}
		preview.Samples = append(preview.Samples, sample)
	}

	preview.Message = fmt.Sprintf("Preview ready: %d records, %d columns, %d top products detected",
		preview.RecordCount, len(preview.Columns), len(preview.TopProducts))
	log.Printf("👀 Preview for %s: %s", filename, preview.Message)

	return c.JSON(fiber.Map{"success": true, "data": preview})
}

// readUpload pulls the multipart file and parses it into a raw table.
func readUpload(c *fiber.Ctx) (*analytics.Table, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("missing file upload (field 'file')")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", fmt.Errorf("could not open upload: %w", err)
	}
	defer f.Close()

	contents, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("could not read upload: %w", err)
	}

	table, err := utils.ParseTabularFile(fileHeader.Filename, contents)
	if err != nil {
		return nil, "", err
	}
	return table, fileHeader.Filename, nil
}

func topProductsPreview(table *analytics.Table, itemIdx, qtyIdx int) []models.ProductShare {
	totals := map[string]float64{}
	for i := range table.Rows {
		qty, err := strconv.ParseFloat(table.Cell(i, qtyIdx), 64)
		if err != nil || qty <= 0 {
			continue
		}
		totals[table.Cell(i, itemIdx)] += qty
	}

	shares := make([]models.ProductShare, 0, len(totals))
	for name, qty := range totals {
		shares = append(shares, models.ProductShare{ItemName: name, Quantity: qty})
	}
	sort.Slice(shares, func(i, j int) bool { return shares[i].Quantity > shares[j].Quantity })
	if len(shares) > 5 {
		shares = shares[:5]
	}
	return shares
}
