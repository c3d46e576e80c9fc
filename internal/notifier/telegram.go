package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const telegramAPI = "https://api.telegram.org"

// TelegramNotifier delivers operator alerts and command replies through the
// Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	APIBase  string
	// Backoff is the first retry delay; it doubles on every attempt.
	Backoff time.Duration
	Client  *http.Client
}

// NewTelegramNotifier creates a notifier. proxyURL may be empty.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		APIBase:  telegramAPI,
		Backoff:  time.Second,
		Client:   &http.Client{Timeout: 30 * time.Second, Transport: transport},
	}
}

func (t *TelegramNotifier) method(name string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.APIBase, t.BotToken, name)
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// apiResponse is the envelope every Bot API method answers with.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts text to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: t.ChatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.method("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	var ar apiResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&ar)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, ar.Description)
	}
	if decodeErr == nil && !ar.OK {
		return fmt.Errorf("telegram rejected message: %s", ar.Description)
	}
	return nil
}

// SendWithRetry retries Send up to maxRetries times with doubling backoff.
// A cancelled ctx ends the retries with ctx.Err().
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	backoff := t.Backoff
	if backoff <= 0 {
		backoff = time.Second
	}
	var lastErr error
	for attempt := 1; attempt <= maxRetries+1; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = t.Send(ctx, text)
		if lastErr == nil {
			return nil
		}
		if attempt > maxRetries {
			break
		}
		log.Warn().Err(lastErr).Int("attempt", attempt).Dur("backoff", backoff).Msg("telegram send failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("telegram send failed after %d attempts: %w", maxRetries+1, lastErr)
}
