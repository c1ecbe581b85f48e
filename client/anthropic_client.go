package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Aashish23092/food-procurement-ocr/dto"
)

// AnthropicClient sends extraction prompts to the Claude Messages API.
type AnthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func NewAnthropicClient(apiKey, model string, maxTokens int64) *AnthropicClient {
	if model == "" {
		model = "claude-3-7-sonnet-20250219"
	}
	if maxTokens <= 0 {
		maxTokens = 20000
	}
	return &AnthropicClient{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(0)),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Generate performs a single stateless Messages call. Retries are owned by the caller.
func (c *AnthropicClient) Generate(ctx context.Context, req dto.GenerateRequest) (string, error) {
	start := time.Now()

	var blocks []anthropic.ContentBlockParamUnion
	if len(req.Document) > 0 {
		encoded := base64.StdEncoding.EncodeToString(req.Document)
		if req.DocumentMIME == "application/pdf" {
			blocks = append(blocks, anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{Data: encoded}))
		} else {
			blocks = append(blocks, anthropic.NewImageBlockBase64(req.DocumentMIME, encoded))
		}
	}
	blocks = append(blocks, anthropic.NewTextBlock(req.Prompt))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var out strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}

	log.Printf("Anthropic response model=%s chars=%d tokens_in=%d tokens_out=%d stop=%s elapsed=%s",
		c.model, out.Len(), message.Usage.InputTokens, message.Usage.OutputTokens, message.StopReason, time.Since(start).Round(time.Millisecond))

	if message.StopReason == anthropic.StopReasonMaxTokens {
		log.Printf("Warning: Anthropic output hit the %d token limit and is likely truncated", c.maxTokens)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("no text content in Anthropic response")
	}
	return out.String(), nil
}
