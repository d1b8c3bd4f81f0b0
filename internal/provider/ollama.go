package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"notedeck/internal/fault"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// ollamaClient calls a local Ollama server. No credential is required.
type ollamaClient struct {
	baseURL string
	model   string
	client  *http.Client
}

func newOllama(cfg Config) (*ollamaClient, error) {
	if cfg.Model == "" {
		return nil, &fault.ProviderError{Code: fault.CodeInvalidModel, Msg: "model name required"}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &ollamaClient{
		baseURL: baseURL,
		model:   cfg.Model,
		client:  &http.Client{},
	}, nil
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (c *ollamaClient) Complete(ctx context.Context, prompt string, params Params) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: params.Temperature,
			NumPredict:  params.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", classifyTransport(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransport(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, string(respBody))
	}

	var out ollamaResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", &fault.ProviderError{Code: fault.CodeEmptyCompletion, Msg: "unexpected response shape", Err: err}
	}
	if out.Error != "" {
		return "", &fault.ProviderError{Code: fault.CodeProviderUnavailable, Msg: out.Error}
	}
	if out.Response == "" {
		return "", &fault.ProviderError{Code: fault.CodeEmptyCompletion, Msg: "no response text returned"}
	}
	return out.Response, nil
}
