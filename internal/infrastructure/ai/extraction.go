// Package ai adaptadores de extracción de productos con modelos de lenguaje.
// Todos devuelven renglones con el esquema de dto.ProductImportRows; la
// normalización de valores ocurre en el caso de uso de importación.
package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/application/ports"
	"github.com/jhoicas/cremeria-api/pkg/config"
)

// maxFileChars límite del archivo que se envía al modelo.
const maxFileChars = 200_000

const extractionPrompt = `Eres un asistente que captura el catálogo de una cremería mayorista.
Recibirás el contenido de un archivo de productos (normalmente CSV exportado de Excel).
Devuelve ÚNICAMENTE un objeto JSON válido con la forma {"products": [...]} que cumpla este esquema:
%s

Reglas:
- Un elemento por producto; ignora renglones vacíos o de totales.
- Todos los valores van como texto tal como aparecen; no inventes precios.
- category, unit y warehouse_type sólo pueden tomar los valores del esquema; si no hay certeza deja el campo vacío.
- has_final_measurement, is_master_product e is_active: "true" o "false".
- master_product_id: SKU o id del producto maestro cuando el renglón es una variante.`

var (
	schemaOnce sync.Once
	schemaMap  map[string]any
	schemaText string
)

// ProductSchema esquema JSON de dto.ProductImportRows, sin referencias y sin
// propiedades adicionales.
func ProductSchema() (map[string]any, string) {
	schemaOnce.Do(func() {
		reflector := jsonschema.Reflector{
			AllowAdditionalProperties: false,
			DoNotReference:            true,
		}
		b, err := json.Marshal(reflector.Reflect(&dto.ProductImportRows{}))
		if err != nil {
			panic(fmt.Sprintf("ai: serializar esquema: %v", err))
		}
		schemaText = string(b)
		if err := json.Unmarshal(b, &schemaMap); err != nil {
			panic(fmt.Sprintf("ai: esquema a mapa: %v", err))
		}
	})
	return schemaMap, schemaText
}

func systemPrompt() string {
	_, schema := ProductSchema()
	return fmt.Sprintf(extractionPrompt, schema)
}

func userPrompt(filename string, content []byte) string {
	text := string(content)
	if len(text) > maxFileChars {
		text = text[:maxFileChars]
	}
	return fmt.Sprintf("Archivo: %s\n\n%s", filename, text)
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON extrae el primer objeto JSON de un texto libre.
//  1. Elimina bloques de código markdown (```json … ```).
//  2. Usa regex para capturar el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}

// decodeRows interpreta la respuesta del modelo.
func decodeRows(provider, raw string) ([]dto.ProductImportRow, error) {
	clean := extractJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("AI: %s no devolvió JSON (respuesta: %.200s)", provider, raw)
	}
	var out dto.ProductImportRows
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, fmt.Errorf("AI: %s: parsear productos: %w", provider, err)
	}
	return out.Products, nil
}

// New construye el extractor configurado. Provider "none" o vacío devuelve nil:
// la importación con IA queda deshabilitada.
func New(cfg config.AIConfig) (ports.ProductExtractor, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "none":
		return nil, nil
	case "anthropic":
		return NewAnthropicExtractor(cfg.AnthropicAPIKey, cfg.AnthropicModel), nil
	case "gemini":
		return NewGeminiExtractor(cfg.GeminiAPIKey, cfg.GeminiModel), nil
	case "openai":
		return NewOpenAIExtractor(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	}
	return nil, fmt.Errorf("AI: proveedor desconocido %q", cfg.Provider)
}
