package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"notedeck/internal/fault"
)

const defaultHuggingFaceBaseURL = "https://api-inference.huggingface.co"

// huggingFaceClient calls the Hugging Face hosted inference API.
type huggingFaceClient struct {
	baseURL string
	model   string
	token   string
	client  *http.Client
}

func newHuggingFace(cfg Config) (*huggingFaceClient, error) {
	if cfg.Credential == "" {
		return nil, &fault.ProviderError{Code: fault.CodeInvalidCredential, Msg: "api token required"}
	}
	if cfg.Model == "" {
		return nil, &fault.ProviderError{Code: fault.CodeInvalidModel, Msg: "model id required"}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultHuggingFaceBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	return &huggingFaceClient{
		baseURL: baseURL,
		model:   cfg.Model,
		token:   cfg.Credential,
		client:  &http.Client{},
	}, nil
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	Temperature    float64 `json:"temperature,omitempty"`
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

func (c *huggingFaceClient) Complete(ctx context.Context, prompt string, params Params) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			Temperature:  params.Temperature,
			MaxNewTokens: params.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + "/models/" + c.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

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
		// 503 means the hosted model is still loading; worth retrying.
		return "", classifyStatus(resp.StatusCode, string(respBody))
	}

	var generations []hfGeneration
	if err := json.Unmarshal(respBody, &generations); err != nil {
		return "", &fault.ProviderError{Code: fault.CodeEmptyCompletion, Msg: "unexpected response shape", Err: err}
	}
	if len(generations) == 0 || generations[0].GeneratedText == "" {
		return "", &fault.ProviderError{Code: fault.CodeEmptyCompletion, Msg: "no generated text returned"}
	}
	return generations[0].GeneratedText, nil
}
