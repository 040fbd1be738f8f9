// Package gemini はGoogle Gemini APIを使用した挨拶文生成クライアントを提供します。
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"greetings_backend/internal/feature/greetings/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// GeminiSuggester はGoogle Gemini APIを使用して挨拶文を生成します。
type GeminiSuggester struct {
	client *genai.Client
	model  string
}

// GeminiSuggesterがMessageSuggesterを実装していることをコンパイル時に検証します。
var _ usecase.MessageSuggester = (*GeminiSuggester)(nil)

// NewGeminiSuggester はADCを使用してGeminiSuggesterの新しいインスタンスを生成します。
// 環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION が必要です。
func NewGeminiSuggester(ctx context.Context) (*GeminiSuggester, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiSuggester{client: client, model: DefaultModel}, nil
}

// Suggest はプロンプトから挨拶文を生成します。
func (g *GeminiSuggester) Suggest(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}

	return resp.Text(), nil
}
