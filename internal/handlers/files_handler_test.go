package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)

func (e *testEnv) upload(t *testing.T, filename string, content []byte) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files/product", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestFilesUploadAndServe(t *testing.T) {
	env := setupApp(t)

	status, body := env.upload(t, "shirt.png", pngBytes)
	require.Equal(t, http.StatusCreated, status, body)
	secureURL := body["secureUrl"].(string)
	prefix := env.cfg.HostAPI + "/files/product/"
	require.True(t, strings.HasPrefix(secureURL, prefix), secureURL)
	assert.True(t, strings.HasSuffix(secureURL, ".png"), secureURL)

	resp, raw := env.do(t, http.MethodGet, "/api/files/product/"+strings.TrimPrefix(secureURL, prefix), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, pngBytes, raw)
}

func TestFilesRejectsNonImages(t *testing.T) {
	env := setupApp(t)

	status, body := env.upload(t, "notes.png", []byte("just some text, not a picture"))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Make sure that the file is an image", body["message"])

	// No file at all
	req := httptest.NewRequest(http.MethodPost, "/api/files/product", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "Make sure that the file is an image")
}

func TestFilesMissingImage(t *testing.T) {
	env := setupApp(t)

	status, body := env.doJSON(t, http.MethodGet, "/api/files/product/missing.jpg", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No product found with image missing.jpg", body["message"])
}
