package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
)

// GroqLLM talks to Groq's OpenAI-compatible chat completions endpoint.
type GroqLLM struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGroqLLM(baseURL, apiKey, model string) (*GroqLLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq api key is empty")
	}
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	if model == "" {
		return nil, fmt.Errorf("groq model name is empty")
	}
	return &GroqLLM{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model    string        `json:"model"`
	Messages []groqMessage `json:"messages"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *GroqLLM) Chat(ctx context.Context, systemPrompt string, history []models.ChatMessage, input string) (string, error) {
	msgs := make([]groqMessage, 0, len(history)+2)
	if systemPrompt != "" {
		msgs = append(msgs, groqMessage{Role: "system", Content: systemPrompt})
	}
	for _, m := range history {
		role := "user"
		if m.Type == models.MessageTypeAI {
			role = "assistant"
		}
		msgs = append(msgs, groqMessage{Role: role, Content: m.Content})
	}
	msgs = append(msgs, groqMessage{Role: "user", Content: input})
	return g.complete(ctx, msgs)
}

func (g *GroqLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var msgs []groqMessage
	if systemPrompt != "" {
		msgs = append(msgs, groqMessage{Role: "system", Content: systemPrompt})
	}
	msgs = append(msgs, groqMessage{Role: "user", Content: userPrompt})
	return g.complete(ctx, msgs)
}

func (g *GroqLLM) complete(ctx context.Context, msgs []groqMessage) (string, error) {
	body, err := json.Marshal(groqRequest{Model: g.model, Messages: msgs})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out groqResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := string(raw)
		if out.Error != nil {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("groq status %d: %s", resp.StatusCode, msg)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

var _ Provider = (*GroqLLM)(nil)
