// Package generator asks a hosted Gemini model for post drafts.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/creatorstation/postdesk/pkg/web"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash-latest"
)

var ErrGenerationFailed = errors.New("content generation failed")

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Gemini calls the generateContent endpoint once per prompt. No retries.
type Gemini struct {
	client *resty.Client
	apiKey string
	model  string
}

func NewGemini(cfg Config) *Gemini {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	model := strings.TrimPrefix(strings.TrimSpace(cfg.Model), "models/")
	if model == "" {
		model = DefaultModel
	}

	return &Gemini{
		client: web.NewClient(nil, cfg.BaseURL, "postdesk-generator", cfg.Timeout),
		apiKey: cfg.APIKey,
		model:  model,
	}
}

func (g *Gemini) Model() string { return g.model }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate returns the model's text for prompt, trimmed of surrounding whitespace.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	var out generateResponse
	var apiErr apiError

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", g.apiKey).
		SetBody(generateRequest{Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}}}).
		SetResult(&out).
		SetError(&apiErr).
		SetPathParam("model", g.model).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if resp.IsError() {
		if apiErr.Error.Message != "" {
			return "", fmt.Errorf("%w: %s (%d %s)", ErrGenerationFailed, apiErr.Error.Message, resp.StatusCode(), apiErr.Error.Status)
		}
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, web.StatusError(resp))
	}

	if reason := out.PromptFeedback.BlockReason; reason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", ErrGenerationFailed, reason)
	}
	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", ErrGenerationFailed)
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("%w: empty response (finish reason %s)", ErrGenerationFailed, out.Candidates[0].FinishReason)
	}
	return text, nil
}
