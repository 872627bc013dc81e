package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"forecastai/config"
	"forecastai/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// HandleInsightsSummary turns a processed analysis into a short narrative
// recommendation using Gemini.
// POST /api/insights/summary
func HandleInsightsSummary(c *fiber.Ctx) error {
	var req models.InsightsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cannot parse JSON"})
	}

	if config.AppConfig.GeminiAPIKey == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "message": "AI insights not configured"})
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Printf("Error creating Gemini client: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to connect to AI service"})
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.5-flash-lite")
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(constructInsightsPrompt(&req)))
	if err != nil {
		log.Printf("Error from Gemini API: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to generate insights"})
	}

	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	if text.Len() == 0 {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "AI returned no usable response"})
	}

	return c.JSON(fiber.Map{"success": true, "data": models.InsightsResponse{
		Insights:    text.String(),
		Model:       "gemini-2.5-flash-lite",
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}})
}

// constructInsightsPrompt lays out the analysis context for the model.
func constructInsightsPrompt(req *models.InsightsRequest) string {
	var b strings.Builder
	b.WriteString("You are a retail inventory advisor for a small business owner.\n\n")
	b.WriteString(fmt.Sprintf("Sales data: %d records over %s, %d unique products, %.0f total units sold.\n",
		req.Summary.TotalRecords, req.Summary.DateRange, req.Summary.UniqueItems, req.Summary.TotalUnits))
	b.WriteString(fmt.Sprintf("Revenue: %.2f total, %.2f per day on average, growth rate %.1f%%.\n",
		req.Business.TotalRevenue, req.Business.AvgDailyRevenue, req.Business.GrowthRatePercent))

	if len(req.TopInventory) > 0 {
		b.WriteString("\nHighest-risk inventory items:\n")
		for i, rec := range req.TopInventory {
			if i >= 5 {
				break
			}
			b.WriteString(fmt.Sprintf("- %s: %.1f units/day, priority %s, recommended stock %.0f\n",
				rec.ItemName, rec.DailyAvg, rec.Priority, rec.RecommendedStock))
		}
	}
	if len(req.PriorityActions) > 0 {
		b.WriteString("\nTop pending actions:\n")
		for i, a := range req.PriorityActions {
			if i >= 5 {
				break
			}
			b.WriteString(fmt.Sprintf("- [%s] %s: %s\n", a.Priority, a.ItemName, a.Reason))
		}
	}

	if req.Question != "" {
		b.WriteString("\nOwner's question: " + req.Question + "\n")
	}
	b.WriteString("\nGive a concise, practical summary (under 200 words) of what to restock first and why.")
	return b.String()
}
