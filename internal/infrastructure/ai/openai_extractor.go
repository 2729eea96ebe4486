package ai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"

	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/application/ports"
)

var _ ports.ProductExtractor = (*OpenAIExtractor)(nil)

// OpenAIExtractor adaptador sobre la Responses API con salida JSON Schema estricta.
type OpenAIExtractor struct {
	client *openai.Client
	apiKey string
	model  string
}

// NewOpenAIExtractor construye el adaptador. opts permite cambiar el endpoint.
func NewOpenAIExtractor(apiKey, model string, opts ...option.RequestOption) *OpenAIExtractor {
	if model == "" {
		model = string(shared.ChatModelGPT4o)
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIExtractor{client: &client, apiKey: apiKey, model: model}
}

// ExtractProducts envía el archivo al modelo y devuelve los renglones extraídos.
func (s *OpenAIExtractor) ExtractProducts(ctx context.Context, filename string, content []byte) ([]dto.ProductImportRow, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("AI: OPENAI_API_KEY no configurado")
	}
	schema, _ := ProductSchema()
	params := responses.ResponseNewParams{
		Model:        shared.ResponsesModel(s.model),
		Instructions: param.NewOpt(systemPrompt()),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(userPrompt(filename, content)),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "product_import_rows",
					Strict:      param.NewOpt(true),
					Schema:      schema,
					Description: param.NewOpt("Productos del catálogo extraídos del archivo"),
				},
			},
		},
	}

	resp, err := s.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("AI: OpenAI: %w", err)
	}
	text := resp.OutputText()
	if text == "" {
		return nil, fmt.Errorf("AI: OpenAI devolvió respuesta vacía")
	}
	return decodeRows("OpenAI", text)
}
