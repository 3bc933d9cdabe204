package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxNewTokens bounds text-generation output per call.
const maxNewTokens = 1024

// HuggingFace calls the Hugging Face inference API for one model.
type HuggingFace struct {
	baseURL string
	token   string
	model   string
	client  *http.Client
}

// NewHuggingFace returns a client for model. A nil client uses
// http.DefaultClient. The token is optional for public models.
func NewHuggingFace(baseURL, token, model string, client *http.Client) *HuggingFace {
	if client == nil {
		client = http.DefaultClient
	}
	return &HuggingFace{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		model:   model,
		client:  client,
	}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

// Complete runs text generation for the prompt.
func (h *HuggingFace) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens: maxNewTokens,
			Temperature:  Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("huggingface %s: encoding request: %w", h.model, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/"+h.model, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("huggingface %s: building request: %w", h.model, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("huggingface %s: %w", h.model, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("huggingface %s: reading response: %w", h.model, err)
	}
	if resp.StatusCode/100 != 2 {
		return "", &StatusError{Backend: "huggingface/" + h.model, Code: resp.StatusCode, Body: truncate(string(data), 500)}
	}

	text, err := decodeGeneration(data)
	if err != nil {
		return "", fmt.Errorf("huggingface %s: %w", h.model, err)
	}
	return text, nil
}

// decodeGeneration accepts both the list form and the single-object form
// of a text-generation answer.
func decodeGeneration(data []byte) (string, error) {
	var list []hfGeneration
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) == 0 || strings.TrimSpace(list[0].GeneratedText) == "" {
			return "", ErrEmptyResponse
		}
		return list[0].GeneratedText, nil
	}

	var one struct {
		hfGeneration
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &one); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if one.Error != "" {
		return "", fmt.Errorf("inference error: %s", one.Error)
	}
	if strings.TrimSpace(one.GeneratedText) == "" {
		return "", ErrEmptyResponse
	}
	return one.GeneratedText, nil
}
