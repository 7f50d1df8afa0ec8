package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/pageza/allertrack/backend/config"
)

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a chat completions request
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatCompletionGenerator talks to an OpenAI compatible chat completions
// endpoint such as DeepSeek.
type ChatCompletionGenerator struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

func NewChatCompletionGenerator(apiKey, apiURL, model string, client *http.Client) *ChatCompletionGenerator {
	if client == nil {
		client = http.DefaultClient
	}
	return &ChatCompletionGenerator{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: client,
	}
}

func (g *ChatCompletionGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := Request{
		Model: g.model,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
		TopP:        1,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.apiKey))

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr != nil {
			return "", fmt.Errorf("failed to read error response: %w", readErr)
		}
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var result chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Choices[0].Message.Content, nil
}

type unavailableGenerator struct{}

func (unavailableGenerator) Generate(context.Context, string) (string, error) {
	return "", ErrOracleUnavailable
}

func (unavailableGenerator) ExtractImageText(context.Context, []byte, string) (string, error) {
	return "", ErrOracleUnavailable
}

// NewGenerator builds the generator selected by LLM_PROVIDER. A provider
// without an API key yields a generator that always fails, so the rest of
// the API keeps working.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Generator, error) {
	switch cfg.LLMProvider {
	case config.ProviderDeepSeek:
		if cfg.DeepSeekAPIKey == "" {
			logger.Warn("DEEPSEEK_API_KEY not set, oracle disabled")
			return unavailableGenerator{}, nil
		}
		logger.Info("using chat completions oracle", "url", cfg.DeepSeekAPIURL, "model", cfg.DeepSeekModel)
		return NewChatCompletionGenerator(cfg.DeepSeekAPIKey, cfg.DeepSeekAPIURL, cfg.DeepSeekModel, nil), nil
	default:
		if cfg.GeminiAPIKey == "" {
			logger.Warn("GEMINI_API_KEY not set, oracle disabled")
			return unavailableGenerator{}, nil
		}
		logger.Info("using gemini oracle", "model", cfg.GeminiModel)
		return NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	}
}

// NewImageOCR builds the OCR engine selected by OCR_ENGINE. Gemini OCR
// reuses the configured gemini generator when there is one.
func NewImageOCR(ctx context.Context, cfg *config.Config, gen Generator, logger *slog.Logger) (ImageOCR, error) {
	if cfg.OCREngine == config.OCRTesseract {
		logger.Info("using tesseract OCR")
		return NewTesseractOCR()
	}
	if g, ok := gen.(*GeminiGenerator); ok {
		return g, nil
	}
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, image OCR disabled")
		return unavailableGenerator{}, nil
	}
	return NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
}
