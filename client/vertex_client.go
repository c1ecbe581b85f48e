package client

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/Aashish23092/food-procurement-ocr/dto"
)

// VertexClient sends extraction prompts to a Gemini model on Vertex AI.
type VertexClient struct {
	baseClient *genai.Client
	modelName  string
	maxTokens  int32
}

// NewVertexClient creates a client bound to one project and region.
func NewVertexClient(ctx context.Context, projectID, region, modelName string, maxTokens int32) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}
	if modelName == "" {
		modelName = "gemini-1.5-pro"
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return &VertexClient{
		baseClient: baseClient,
		modelName:  modelName,
		maxTokens:  maxTokens,
	}, nil
}

// Generate performs a single stateless GenerateContent call.
func (c *VertexClient) Generate(ctx context.Context, req dto.GenerateRequest) (string, error) {
	model := c.baseClient.GenerativeModel(c.modelName)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0.0),
	}
	if c.maxTokens > 0 {
		model.GenerationConfig.MaxOutputTokens = genai.Ptr(c.maxTokens)
	}

	var parts []genai.Part
	if len(req.Document) > 0 {
		parts = append(parts, genai.Blob{MIMEType: req.DocumentMIME, Data: req.Document})
	}
	parts = append(parts, genai.Text(req.Prompt))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content from gemini: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var out strings.Builder
	textParts := 0
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
			textParts++
		}
	}
	if textParts > 1 {
		log.Printf("Warning: Gemini response contained %d text parts; they have been concatenated", textParts)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		log.Printf("Warning: Gemini output hit the token limit and is likely truncated")
	}
	return out.String(), nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
