package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// DefaultTelegramURL is the public Bot API endpoint.
const DefaultTelegramURL = "https://api.telegram.org"

const maxErrorBody = 4 << 10

// Channel delivers a fully formatted alert text.
type Channel interface {
	Send(ctx context.Context, text string) error
}

// Telegram posts alerts through the Bot API sendMessage method.
type Telegram struct {
	baseURL    string
	token      string
	chatID     string
	httpClient *http.Client
}

// NewTelegram constructs a Telegram channel. An empty baseURL uses DefaultTelegramURL.
func NewTelegram(baseURL, token, chatID string, timeout time.Duration) *Telegram {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultTelegramURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Telegram{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		chatID:  chatID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send returns a *DispatchFailure for transport errors and non-2xx replies.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if t == nil || t.token == "" || t.chatID == "" {
		return ErrNotConfigured
	}
	payload := sendMessageRequest{ChatID: t.chatID, Text: text, ParseMode: "Markdown"}
	return t.postJSON(ctx, t.sendMessageURL(), payload)
}

func (t *Telegram) sendMessageURL() string {
	return t.resolvePath("bot" + t.token + "/sendMessage")
}

func (t *Telegram) resolvePath(p string) string {
	cleaned := "/" + strings.TrimLeft(p, "/")
	u, err := url.Parse(t.baseURL)
	if err != nil {
		return t.baseURL + cleaned
	}
	u.Path = path.Join(u.Path, cleaned)
	return u.String()
}

func (t *Telegram) postJSON(ctx context.Context, endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &DispatchFailure{Kind: FailureNetwork, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return &DispatchFailure{Kind: FailureNetwork, Err: redactToken(err, t.token)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &DispatchFailure{
			Kind:       FailureRemoteRejection,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// redactToken keeps the bot token out of logged url.Error messages.
func redactToken(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), token, "<redacted>"))
}
