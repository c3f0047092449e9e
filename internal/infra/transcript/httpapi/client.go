package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tubeinsight/api/internal/domain/transcript"
)

// Client talks to the transcript sidecar service
// (POST /api/transcript with the video URL).
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type transcriptRequest struct {
	URL string `json:"url"`
}

type transcriptResponse struct {
	Success    bool   `json:"success"`
	Transcript string `json:"transcript"`
	VideoID    string `json:"video_id"`
}

func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	body, err := json.Marshal(transcriptRequest{URL: url})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/transcript", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", transcript.ErrToolFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", transcript.ErrToolFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", transcript.ErrToolFailed, resp.StatusCode, firstLine(string(data)))
	}

	var out transcriptResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", transcript.ErrToolFailed, err)
	}

	text := strings.TrimSpace(out.Transcript)
	if !out.Success || text == "" {
		return "", transcript.ErrNoTranscript
	}
	return text, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
