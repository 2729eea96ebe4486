package ai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cremeria-api/internal/infrastructure/ai"
	"github.com/jhoicas/cremeria-api/pkg/config"
)

const rowsJSON = `{"products":[{"sku":"oax-1","name":"Queso Oaxaca","category":"quesos","unit":"kg","wholesale_price":"150"}]}`

var csvFile = []byte("sku,nombre,precio\nOAX-1,Queso Oaxaca,150\n")

func TestProductSchema_SinReferencias(t *testing.T) {
	schema, text := ai.ProductSchema()
	require.NotNil(t, schema)
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, text, `"products"`)
	assert.Contains(t, text, `"warehouse_type"`)
	assert.NotContains(t, text, `"$ref"`)
}

func TestNew_Proveedores(t *testing.T) {
	ext, err := ai.New(config.AIConfig{Provider: "none"})
	require.NoError(t, err)
	assert.Nil(t, ext)

	for _, p := range []string{"anthropic", "gemini", "openai", "OpenAI"} {
		ext, err = ai.New(config.AIConfig{Provider: p})
		require.NoError(t, err, p)
		assert.NotNil(t, ext, p)
	}

	_, err = ai.New(config.AIConfig{Provider: "mistral"})
	assert.Error(t, err)
}

// ── Anthropic ─────────────────────────────────────────────────────────────────

func TestAnthropic_ExtraeDeMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "clave", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "OAX-1,Queso Oaxaca")

		text := "Aquí están:\n```json\n" + rowsJSON + "\n```"
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": text}},
		})
	}))
	defer srv.Close()

	ext := ai.NewAnthropicExtractor("clave", "claude-test").WithBaseURL(srv.URL)
	rows, err := ext.ExtractProducts(context.Background(), "productos.csv", csvFile)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "oax-1", rows[0].SKU)
	assert.Equal(t, "150", rows[0].WholesalePrice)
}

func TestAnthropic_ErrorDeAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"demasiadas"}}`))
	}))
	defer srv.Close()

	_, err := ai.NewAnthropicExtractor("clave", "m").WithBaseURL(srv.URL).ExtractProducts(context.Background(), "a.csv", csvFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_error")
}

func TestAnthropic_SinAPIKey(t *testing.T) {
	_, err := ai.NewAnthropicExtractor("", "m").ExtractProducts(context.Background(), "a.csv", csvFile)
	assert.ErrorContains(t, err, "ANTHROPIC_API_KEY")
}

// ── Gemini ────────────────────────────────────────────────────────────────────

func TestGemini_JSONPuro(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/gemini-test:generateContent"))
		assert.Equal(t, "clave", r.URL.Query().Get("key"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"parts": []map[string]string{{"text": rowsJSON}}},
			}},
		})
	}))
	defer srv.Close()

	rows, err := ai.NewGeminiExtractor("clave", "gemini-test").WithBaseURL(srv.URL+"/").ExtractProducts(context.Background(), "a.csv", csvFile)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Queso Oaxaca", rows[0].Name)
}

func TestGemini_RespuestaSinJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"parts": []map[string]string{{"text": "no encontré productos"}}},
			}},
		})
	}))
	defer srv.Close()

	_, err := ai.NewGeminiExtractor("clave", "g").WithBaseURL(srv.URL).ExtractProducts(context.Background(), "a.csv", csvFile)
	assert.ErrorContains(t, err, "no devolvió JSON")
}

// ── OpenAI ────────────────────────────────────────────────────────────────────

func TestOpenAI_SalidaEstructurada(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/responses"))
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		format := req["text"].(map[string]any)["format"].(map[string]any)
		assert.Equal(t, "json_schema", format["type"])
		assert.Equal(t, true, format["strict"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "resp_1", "object": "response", "status": "completed", "model": "gpt-4o",
			"output": []map[string]any{{
				"type":    "message", "id": "msg_1", "role": "assistant", "status": "completed",
				"content": []map[string]any{{"type": "output_text", "text": rowsJSON, "annotations": []any{}}},
			}},
		})
	}))
	defer srv.Close()

	ext := ai.NewOpenAIExtractor("clave", "gpt-4o", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	rows, err := ext.ExtractProducts(context.Background(), "a.csv", csvFile)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "kg", rows[0].Unit)
}
