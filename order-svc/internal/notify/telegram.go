package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const DefaultTelegramAPI = "https://api.telegram.org"

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TelegramSender posts messages to a Bot API compatible sendMessage endpoint.
type TelegramSender struct {
	BaseURL string
	Token   string
	Client  HTTPClient
}

func NewTelegramSender(baseURL, token string, client HTTPClient) *TelegramSender {
	if baseURL == "" {
		baseURL = DefaultTelegramAPI
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &TelegramSender{BaseURL: strings.TrimRight(baseURL, "/"), Token: token, Client: client}
}

func (s *TelegramSender) Send(ctx context.Context, chatID, text string) error {
	body, err := json.Marshal(map[string]string{"chat_id": chatID, "text": text})
	if err != nil {
		return err
	}
	endpoint := s.BaseURL + "/bot" + s.Token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", withoutURL(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", withoutURL(err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send message: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// withoutURL drops the request URL from transport errors; it embeds the bot token.
func withoutURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
