package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartUpload(t *testing.T, filename string, contents []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(contents)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func sampleCSV(days int) []byte {
	var buf bytes.Buffer
	buf.WriteString("Date,Item Name,Qty,Price\n")
	for i := 0; i < days; i++ {
		fmt.Fprintf(&buf, "2024-03-%02d,Apples,%d,2.50\n", i+1, 10+i%3)
		fmt.Fprintf(&buf, "2024-03-%02d,Bread,4,3.00\n", i+1)
	}
	return buf.Bytes()
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestHandlePreview(t *testing.T) {
	app := fiber.New()
	app.Post("/api/forecast/preview", HandlePreview)

	body, contentType := multipartUpload(t, "sales.csv", sampleCSV(10), nil)
	req := httptest.NewRequest("POST", "/api/forecast/preview", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	payload := decodeBody(t, resp)
	assert.Equal(t, true, payload["success"])

	data := payload["data"].(map[string]interface{})
	assert.EqualValues(t, 20, data["recordCount"])

	detected := data["detected_columns"].(map[string]interface{})
	assert.Equal(t, "Date", detected["date"])
	assert.Equal(t, "Qty", detected["quantity"])
	assert.Equal(t, "Item Name", detected["itemname"])

	dateRange := data["dateRange"].(map[string]interface{})
	assert.Equal(t, "2024-03-01", dateRange["start"])
	assert.Equal(t, "2024-03-10", dateRange["end"])

	top := data["topProducts"].([]interface{})
	require.NotEmpty(t, top)
	first := top[0].(map[string]interface{})
	assert.Equal(t, "Apples", first["item_name"])

	samples := data["samples"].([]interface{})
	assert.Len(t, samples, 5)
}

func TestHandlePreviewMissingFile(t *testing.T) {
	app := fiber.New()
	app.Post("/api/forecast/preview", HandlePreview)

	req := httptest.NewRequest("POST", "/api/forecast/preview", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	payload := decodeBody(t, resp)
	assert.Equal(t, false, payload["success"])
}

func TestHandlePreviewUnsupportedFormat(t *testing.T) {
	app := fiber.New()
	app.Post("/api/forecast/preview", HandlePreview)

	body, contentType := multipartUpload(t, "sales.pdf", []byte("not a table"), nil)
	req := httptest.NewRequest("POST", "/api/forecast/preview", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleUploadAndProcessUnauthorized(t *testing.T) {
	// Registered without the JWT middleware, so no claims are on the request.
	app := fiber.New()
	app.Post("/api/forecast/upload-and-process", HandleUploadAndProcess)

	body, contentType := multipartUpload(t, "sales.csv", sampleCSV(10), nil)
	req := httptest.NewRequest("POST", "/api/forecast/upload-and-process", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
