// Package notify sends the scheduled navigator reminders to Slack.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Yoshiyuki1026/smtd/internal/config"
)

var ErrNoToken = errors.New("notify: slack bot token not set")

// Poster delivers one message.
type Poster interface {
	Post(ctx context.Context, text string) error
}

// SlackClient posts through chat.postMessage with a bot token.
type SlackClient struct {
	httpClient *http.Client
	url        string
	token      string
	channel    string
	username   string
	icon       string
}

func NewSlackClient(cfg config.Slack) *SlackClient {
	return &SlackClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		url:        cfg.APIURL,
		token:      cfg.BotToken,
		channel:    cfg.Channel,
		username:   "ルナ",
		icon:       ":sparkles:",
	}
}

type postMessage struct {
	Channel   string `json:"channel"`
	Text      string `json:"text"`
	Username  string `json:"username,omitempty"`
	IconEmoji string `json:"icon_emoji,omitempty"`
}

type slackReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Post sends text prefixed with the navigator mark.
func (c *SlackClient) Post(ctx context.Context, text string) error {
	if c.token == "" {
		return ErrNoToken
	}
	body, err := json.Marshal(postMessage{
		Channel:   c.channel,
		Text:      "◈ " + text,
		Username:  c.username,
		IconEmoji: c.icon,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	var reply slackReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("slack reply (status %d): %w", resp.StatusCode, err)
	}
	if !reply.OK {
		return fmt.Errorf("slack api error: %s", reply.Error)
	}
	return nil
}
