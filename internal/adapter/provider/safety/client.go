// Package safety scores donated food items for rescue viability using the
// Anthropic Messages API.
package safety

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Saifff-551/foodhelp/internal/config"
	"github.com/Saifff-551/foodhelp/internal/domain"
)

// Client calls Claude to assess food safety.
type Client struct {
	api       anthropic.Client
	model     string
	maxTokens int64
	log       *slog.Logger
}

// NewClient creates a Client from SafetyConfig. Retries are left to the
// caller's deadline: the SDK is configured with a single retry.
func NewClient(cfg config.SafetyConfig, logger *slog.Logger) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(1),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api:       anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		log:       logger.With("adapter", "safety"),
	}
}

type verdict struct {
	Score                *int   `json:"score"`
	Reasoning            string `json:"reasoning"`
	HandlingInstructions string `json:"handlingInstructions"`
}

// Assess asks the model for a 0-100 safety score with reasoning and
// handling instructions for the rescuer.
func (c *Client) Assess(ctx context.Context, description, preparedTime string) (domain.SafetyAssessment, error) {
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(description, preparedTime))),
		},
	})
	if err != nil {
		return domain.SafetyAssessment{}, fmt.Errorf("safety: messages api: %w", err)
	}

	if len(msg.Content) == 0 {
		return domain.SafetyAssessment{}, fmt.Errorf("safety: empty response")
	}

	raw, err := extractJSON(msg.Content[0].Text)
	if err != nil {
		return domain.SafetyAssessment{}, fmt.Errorf("safety: %w", err)
	}

	var v verdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return domain.SafetyAssessment{}, fmt.Errorf("safety: decode verdict: %w", err)
	}
	if v.Score == nil {
		return domain.SafetyAssessment{}, fmt.Errorf("safety: verdict has no score")
	}

	c.log.DebugContext(ctx, "safety assessed",
		slog.Int("score", *v.Score),
		slog.String("model", c.model))

	return domain.SafetyAssessment{
		Score:                clampScore(*v.Score),
		Reasoning:            v.Reasoning,
		HandlingInstructions: v.HandlingInstructions,
	}, nil
}

func buildPrompt(description, preparedTime string) string {
	return fmt.Sprintf(`Analyze this food donation for safety and logistical viability.
Item: %s
Prepared: %s

Output a safety score (0-100), brief reasoning, and specific handling instructions for a rescuer (e.g. "Must keep hot").
Be strict but realistic for food rescue scenarios.

Output ONLY a JSON object:
{"score": <integer 0-100>, "reasoning": "<one or two sentences>", "handlingInstructions": "<instructions>"}`,
		description, preparedTime)
}

// extractJSON finds the outermost JSON object in a model response.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}

func clampScore(n int) int {
	return max(0, min(100, n))
}
