package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studyflow/utils"

	"google.golang.org/genai"
)

type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &Gemini{client: client, model: model, timeout: timeout}, nil
}

func (g *Gemini) Generate(ctx context.Context, p Prompt) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents := make([]*genai.Content, 0, len(p.Turns))
	for _, t := range p.Turns {
		role := genai.Role(genai.RoleUser)
		if t.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}

	cfg := &genai.GenerateContentConfig{}
	if p.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}
	if p.Temperature > 0 {
		cfg.Temperature = genai.Ptr(p.Temperature)
	}

	timer := utils.AIRequestDuration.WithLabelValues(p.Purpose)
	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	timer.Observe(time.Since(start).Seconds())
	if err != nil {
		utils.TrackAIRequest(p.Purpose, "failure")
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		utils.TrackAIRequest(p.Purpose, "failure")
		return "", ErrEmptyResponse
	}
	utils.TrackAIRequest(p.Purpose, "success")
	return text, nil
}
