package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pulselabs/community-pulse-go/pkg/errors"
	"go.uber.org/zap"
)

// Client is the HTTP side of the relay: replies go out through it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) SendMessage(ctx context.Context, communityID, channelID, message string) error {
	req := ReplyRequest{
		Type:        "text",
		CommunityID: communityID,
		ChannelID:   channelID,
		Data:        message,
	}

	if err := c.doRequest(ctx, "POST", "/reply", req, nil); err != nil {
		c.logger.Error("Failed to send message",
			zap.Error(err),
			zap.String("community", communityID),
			zap.String("channel", channelID),
		)
		return err
	}

	return nil
}

func (c *Client) Ping(ctx context.Context) bool {
	return c.doRequest(ctx, "GET", "/health", nil, nil) == nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, reqBody, respBody any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return errors.NewAPIError("failed to marshal request", 400, map[string]any{
				"url": url,
			}).WithCause(err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return errors.NewAPIError("failed to create request", 500, map[string]any{
			"url": url,
		}).WithCause(err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewAPIError("request failed", 500, map[string]any{
			"url": url,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return errors.NewAPIError(
			fmt.Sprintf("relay API error: %s", resp.Status),
			resp.StatusCode,
			map[string]any{
				"url":  url,
				"body": string(bodyBytes),
			},
		)
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return errors.NewAPIError("failed to decode response", 500, map[string]any{
				"url": url,
			}).WithCause(err)
		}
	}

	return nil
}
