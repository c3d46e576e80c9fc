package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"MarketPulse/internal/model"
)

// CommandHandler is called when an operator command is received.
type CommandHandler func(command string) string

// StatusSource is the read side the operator commands report on.
type StatusSource interface {
	Watchlist() model.WatchlistSnapshot
	Focus() (string, bool)
}

// StatusCommands answers /status and /watchlist from src. breaker reports
// the provider breaker state.
func StatusCommands(src StatusSource, breaker func() string) CommandHandler {
	return func(command string) string {
		cmd := strings.Fields(command)
		if len(cmd) == 0 {
			return ""
		}
		switch strings.ToLower(strings.SplitN(cmd[0], "@", 2)[0]) {
		case "/status":
			focus, _ := src.Focus()
			return FormatStatus(src.Watchlist(), focus, breaker())
		case "/watchlist":
			return FormatWatchlist(src.Watchlist())
		case "/help", "/start":
			return "/status - service health\n/watchlist - latest quotes"
		}
		return ""
	}
}

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
	} `json:"message"`
}

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	client := &http.Client{Timeout: 35 * time.Second, Transport: t.Client.Transport}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("telegram polling stopped")
			return
		default:
		}

		apiURL := fmt.Sprintf("%s?offset=%d&timeout=30", t.method("getUpdates"), offset)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			log.Error().Err(err).Msg("create polling request")
			return
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Msg("polling request failed")
			sleepCtx(ctx, 5*time.Second)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Warn().Err(err).Msg("read polling response")
			continue
		}

		var result struct {
			OK     bool             `json:"ok"`
			Result []telegramUpdate `json:"result"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			log.Warn().Err(err).Msg("decode polling response")
			sleepCtx(ctx, 5*time.Second)
			continue
		}

		for _, update := range result.Result {
			offset = update.UpdateID + 1
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			text := strings.TrimSpace(update.Message.Text)
			log.Info().Str("command", text).Msg("received command")
			reply := handler(text)
			if reply != "" {
				if err := t.Send(ctx, reply); err != nil {
					log.Error().Err(err).Msg("send reply")
				}
			}
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
