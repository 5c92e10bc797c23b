package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stemsi/pathfinder-backend/internal/model"
)

// NarratorClient calls the external prose generation service over HTTP.
type NarratorClient struct {
	baseURL string
	http    *http.Client
}

// NewNarratorClient creates a client for baseURL. It returns nil when
// baseURL is empty.
func NewNarratorClient(baseURL string, timeout time.Duration) *NarratorClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	return &NarratorClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type narrativeRequest struct {
	Kind       model.NarrativeKind     `json:"kind"`
	Scores     *model.ScoreBundle      `json:"scores"`
	Suggestion *model.SuggestedProfile `json:"suggestion"`
}

type narrativeResponse struct {
	Text string `json:"text"`
}

// Generate posts the profile to /v1/narratives/{kind} and returns the text.
func (c *NarratorClient) Generate(ctx context.Context, kind model.NarrativeKind, profile *model.ProfileView) (string, error) {
	body, err := json.Marshal(narrativeRequest{Kind: kind, Scores: profile.Scores, Suggestion: profile.Suggestion})
	if err != nil {
		return "", fmt.Errorf("marshal narrative request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/narratives/"+string(kind), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call narrator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("narrator returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out narrativeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode narrator response: %w", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", fmt.Errorf("narrator returned empty %s", kind)
	}
	return out.Text, nil
}
