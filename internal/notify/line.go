// Package notify implements the LINE push-message side channel. Pushes are
// fire and forget: failures are logged and swallowed, never retried, and
// never block the operation that triggered them.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pawnshop-service/internal/util"

	"go.uber.org/zap"
)

const defaultPushURL = "https://api.line.me/v2/bot/message/push"

// LineClient pushes text messages to a fixed recipient via the LINE bot API
type LineClient struct {
	httpClient   *http.Client
	pushURL      string
	channelToken string
	recipientID  string
	logger       *zap.Logger
}

// NewLineClient creates a LINE push client. An empty token disables pushes
// (Push becomes a no-op), which keeps the side channel optional.
func NewLineClient(channelToken, recipientID string) *LineClient {
	return &LineClient{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		pushURL:      defaultPushURL,
		channelToken: channelToken,
		recipientID:  recipientID,
		logger:       util.GetLogger(),
	}
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []pushMessage `json:"messages"`
}

type pushMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Enabled reports whether the client has credentials to push with
func (c *LineClient) Enabled() bool {
	return c.channelToken != "" && c.recipientID != ""
}

// Push sends a text message. All failures are logged and swallowed.
func (c *LineClient) Push(ctx context.Context, text string) {
	if !c.Enabled() {
		return
	}

	if err := c.push(ctx, text); err != nil {
		c.logger.Warn("LINE push failed", zap.Error(err))
	}
}

func (c *LineClient) push(ctx context.Context, text string) error {
	body, err := json.Marshal(pushRequest{
		To:       c.recipientID,
		Messages: []pushMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pushURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("LINE push returned %d: %s", resp.StatusCode, detail)
	}

	return nil
}
