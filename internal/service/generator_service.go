package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"math_arena_backend/internal/config"
	"math_arena_backend/internal/util"
	"math_arena_backend/pkg/logger"

	"go.uber.org/zap"
)

// GeneratorService asks an OpenAI-compatible chat completions endpoint for
// a practice problem. Each call is a single fresh round trip: no retries,
// no caching, and a response is either a complete {problem, answer} pair of
// strings or a uniform generation failure.
type GeneratorService struct {
	config config.AIConfig
	client *http.Client
}

func NewGeneratorService(cfg config.AIConfig) *GeneratorService {
	return &GeneratorService{
		config: cfg,
		client: &http.Client{},
	}
}

type GeneratedProblem struct {
	Problem string `json:"problem"`
	Answer  string `json:"answer"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const generatorSystemPrompt = "You write high school math contest problems. " +
	"Respond with a single JSON object containing exactly two string fields: " +
	"\"problem\" (the full problem text in Markdown, including any equations) and " +
	"\"answer\" (the exact, simplified answer as a string, without any extra explanation). " +
	"Output only the JSON object, with no code fences and no commentary."

func validDifficulty(difficulty string) bool {
	switch difficulty {
	case util.DifficultyEasy, util.DifficultyMedium, util.DifficultyHard:
		return true
	}
	return false
}

func (s *GeneratorService) Generate(ctx context.Context, difficulty string) (*GeneratedProblem, error) {
	if !validDifficulty(difficulty) {
		return nil, fmt.Errorf("unknown difficulty %q", difficulty)
	}
	if s.config.APIKey == "" {
		logger.Log.Warn("generator called without an API key configured")
		return nil, util.ErrGenerationFailed
	}

	reqBody := chatCompletionRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: generatorSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(
				"Generate a %s level high school math contest problem. The problem should have a single numerical or simple algebraic expression as the answer.",
				difficulty)},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.Error("generator request failed", zap.Error(err))
		return nil, util.ErrGenerationFailed
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		logger.Log.Error("generator returned non-200",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return nil, util.ErrGenerationFailed
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		logger.Log.Error("generator response unreadable", zap.Error(err))
		return nil, util.ErrGenerationFailed
	}
	if result.Error != nil || len(result.Choices) == 0 {
		logger.Log.Error("generator returned no choices")
		return nil, util.ErrGenerationFailed
	}

	problem, err := parseGeneratedProblem(result.Choices[0].Message.Content)
	if err != nil {
		logger.Log.Error("generator response failed validation", zap.Error(err))
		return nil, util.ErrGenerationFailed
	}
	return problem, nil
}

// parseGeneratedProblem validates the model output strictly: it must be a
// JSON object with exactly the two required fields, both strings. A missing
// field, a non-string value, or unparseable JSON all reject the response as
// a whole; no partial problem is ever accepted.
func parseGeneratedProblem(content string) (*GeneratedProblem, error) {
	text := strings.TrimSpace(content)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, fmt.Errorf("not a JSON object: %w", err)
	}

	var result GeneratedProblem
	rawProblem, ok := fields["problem"]
	if !ok {
		return nil, fmt.Errorf("missing field %q", "problem")
	}
	if err := json.Unmarshal(rawProblem, &result.Problem); err != nil {
		return nil, fmt.Errorf("field %q is not a string", "problem")
	}

	rawAnswer, ok := fields["answer"]
	if !ok {
		return nil, fmt.Errorf("missing field %q", "answer")
	}
	if err := json.Unmarshal(rawAnswer, &result.Answer); err != nil {
		return nil, fmt.Errorf("field %q is not a string", "answer")
	}

	return &result, nil
}
