// Package agent offloads copywriting and sales commentary to a generative
// text model. Failures never reach the caller; they become fixed messages.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Fallback texts returned instead of errors.
const (
	Unavailable        = "content generation unavailable"
	DescriptionFailed  = "Error generating content. Please try again."
	NoDescription      = "No description generated."
	InsightFailed      = "Could not analyze data."
	NoInsight          = "No insights available."
	descriptionMaxWord = 200
)

// SalesPoint is one bucket of the weekly sales series.
type SalesPoint struct {
	Name   string  `json:"name"`
	Sales  float64 `json:"sales"`
	Orders int     `json:"orders"`
}

// Config carries the model credentials explicitly; nothing is read from the
// environment here.
type Config struct {
	APIKey string
	Model  string
}

// Assistant builds the prompts and applies the fallback policy. A nil
// generator means no credential is configured.
type Assistant struct {
	gen Generator
}

// New returns an Assistant backed by Gemini, or an unavailable Assistant when
// cfg has no API key.
func New(ctx context.Context, cfg Config) (*Assistant, error) {
	g, err := NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, err
	}
	if g == nil {
		log.Info("No Gemini API key configured; AI assistance disabled")
		return &Assistant{}, nil
	}
	return &Assistant{gen: g}, nil
}

// NewAssistant wraps an existing generator. A nil generator yields an
// unavailable Assistant.
func NewAssistant(gen Generator) *Assistant {
	return &Assistant{gen: gen}
}

// Available reports whether a generator is configured.
func (a *Assistant) Available() bool {
	return a != nil && a.gen != nil
}

// Close releases the generator.
func (a *Assistant) Close() error {
	if !a.Available() {
		return nil
	}
	return a.gen.Close()
}

// DescriptionPrompt builds the copywriting prompt for a product.
func DescriptionPrompt(productName, keywords string) string {
	return fmt.Sprintf(`Act as a professional e-commerce copywriter.
Write a compelling, SEO-friendly product description (HTML format, no markdown code blocks) for a product named %q.
Include these keywords/features: %s.
Keep it under %d words. Use paragraph tags and bold tags for emphasis.
Tone: Persuasive and professional.`, productName, strings.TrimSpace(keywords), descriptionMaxWord)
}

// InsightPrompt serializes series into a request for a two-sentence comment.
func InsightPrompt(series []SalesPoint) (string, error) {
	data, err := json.Marshal(series)
	if err != nil {
		return "", fmt.Errorf("marshaling sales series: %w", err)
	}
	return fmt.Sprintf(`Analyze the following weekly sales data and provide a brief 2-sentence insight about the trend:
%s`, data), nil
}

// GenerateProductDescription drafts HTML copy for a product. It always
// returns text.
func (a *Assistant) GenerateProductDescription(ctx context.Context, productName, keywords string) string {
	if !a.Available() {
		return Unavailable
	}
	return a.generate(ctx, DescriptionPrompt(productName, keywords), DescriptionFailed, NoDescription)
}

// GenerateSalesInsight comments on the trend of series. It always returns text.
func (a *Assistant) GenerateSalesInsight(ctx context.Context, series []SalesPoint) string {
	if !a.Available() {
		return Unavailable
	}
	prompt, err := InsightPrompt(series)
	if err != nil {
		log.Error("Building insight prompt failed", "err", err)
		return InsightFailed
	}
	return a.generate(ctx, prompt, InsightFailed, NoInsight)
}

func (a *Assistant) generate(ctx context.Context, prompt, onError, onEmpty string) string {
	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		log.Error("Text generation failed", "err", err)
		return onError
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return onEmpty
	}
	return text
}
