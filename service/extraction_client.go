package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Aashish23092/food-procurement-ocr/dto"
	"github.com/Aashish23092/food-procurement-ocr/utils"
)

const (
	DefaultMaxAttempts = 3
	DefaultCallTimeout = 5 * time.Minute
)

// Generator is a stateless text generation backend.
type Generator interface {
	Generate(ctx context.Context, req dto.GenerateRequest) (string, error)
}

// ExtractionRequest is one chunk to extract. Document is set only when the
// source yielded no text and the raw file is sent instead.
type ExtractionRequest struct {
	RequestID    string
	Source       string
	Chunk        dto.Chunk
	FoodIndex    string
	Document     []byte
	DocumentMIME string
}

// ExtractionResult carries the accepted output of a chunk. Text is the last
// model answer when every attempt failed validation, and "" when no attempt
// produced anything.
type ExtractionResult struct {
	Text     string
	Attempts int
	Report   dto.ValidationReport
}

type ExtractionClient struct {
	generator   Generator
	maxAttempts int
	callTimeout time.Duration
}

func NewExtractionClient(generator Generator, maxAttempts int, callTimeout time.Duration) *ExtractionClient {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &ExtractionClient{
		generator:   generator,
		maxAttempts: maxAttempts,
		callTimeout: callTimeout,
	}
}

// Extract runs the chunk through the model, validating every answer. A
// rejected answer is retried with the base prompt plus a description of its
// defects; earlier answers are never resent.
func (c *ExtractionClient) Extract(ctx context.Context, req ExtractionRequest) ExtractionResult {
	basePrompt := BuildPrompt(req.Chunk.Text, req.FoodIndex, req.Chunk.HeaderContext, req.Chunk.IsContinuation)
	prompt := basePrompt

	var result ExtractionResult
	var defects []dto.Defect

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			log.Printf("[%s] Extraction of %s chunk %d cancelled: %v", req.RequestID, req.Source, req.Chunk.Index, ctx.Err())
			break
		}
		result.Attempts = attempt

		output, err := c.call(ctx, dto.GenerateRequest{
			System:       SystemPrompt,
			Prompt:       prompt,
			Document:     req.Document,
			DocumentMIME: req.DocumentMIME,
		})
		if err != nil {
			log.Printf("[%s] Model call failed for %s chunk %d (attempt %d/%d): %v",
				req.RequestID, req.Source, req.Chunk.Index, attempt, c.maxAttempts, err)
			defects = []dto.Defect{{Kind: dto.DefectTransportFailed, Detail: err.Error()}}
			prompt = basePrompt
			continue
		}

		output = CleanModelOutput(output)
		if IsRefusal(output) {
			log.Printf("[%s] Model declined %s chunk %d (attempt %d/%d)", req.RequestID, req.Source, req.Chunk.Index, attempt, c.maxAttempts)
			defects = []dto.Defect{{Kind: dto.DefectModelRefusal, Detail: "the answer was a refusal instead of CSV"}}
			prompt = basePrompt + DiagnosticBlock(attempt, defects)
			continue
		}

		result.Text = output
		result.Report = Validate(withHeader(output, req.Chunk.IsContinuation), req.Chunk.Text)
		if result.Report.IsValid {
			if result.Report.AutoFixed {
				log.Printf("[%s] Auto-fixed %s chunk %d: %s", req.RequestID, req.Source, req.Chunk.Index, result.Report.RepairNote)
				result.Text = result.Report.FixedText
			}
			return result
		}

		defects = result.Report.Defects
		log.Printf("[%s] Output for %s chunk %d failed validation (attempt %d/%d): %s",
			req.RequestID, req.Source, req.Chunk.Index, attempt, c.maxAttempts, strings.Join(result.Report.Errors, "; "))
		prompt = basePrompt + DiagnosticBlock(attempt, defects)
	}

	if len(defects) > 0 {
		unresolved := make([]string, len(defects))
		for i, d := range defects {
			unresolved[i] = d.String()
		}
		log.Printf("[%s] Giving up on %s chunk %d after %d attempts, keeping best-effort output (%d chars). Unresolved: %s",
			req.RequestID, req.Source, req.Chunk.Index, result.Attempts, len(result.Text), strings.Join(unresolved, "; "))
	}
	return result
}

func (c *ExtractionClient) call(ctx context.Context, req dto.GenerateRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	return c.generator.Generate(callCtx, req)
}

// withHeader prefixes the canonical header to a continuation answer given
// without one, so its first row is not checked as a header.
func withHeader(output string, continuation bool) string {
	if !continuation {
		return output
	}
	first := output
	if i := strings.IndexByte(output, '\n'); i >= 0 {
		first = output[:i]
	}
	if LooksLikeHeader(first) {
		return output
	}
	return utils.FormatCSVLine(dto.CanonicalHeader) + "\n" + output
}

// CleanModelOutput drops markdown code fences and surrounding whitespace.
func CleanModelOutput(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

var refusalPrefixes = []string{
	"i'm sorry",
	"i am sorry",
	"i cannot",
	"i can't",
	"i apologize",
	"i'm unable",
	"i am unable",
	"unfortunately",
	"as an ai",
}

// IsRefusal reports whether the answer opens with a refusal instead of data.
func IsRefusal(s string) bool {
	first := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	first = strings.ReplaceAll(first, "’", "'")
	for _, p := range refusalPrefixes {
		if strings.HasPrefix(first, p) {
			return true
		}
	}
	return false
}
