package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/prima/internal/shared"
	"golang.org/x/time/rate"
)

const (
	// DefaultAppURL is the mini app link attached to shared reports.
	DefaultAppURL = "https://t.me/PrimaStudioBot/app"
	shareBase     = "https://t.me/share/url"
	botAPIBase    = "https://api.telegram.org"
)

// ShareURL builds the messaging host's share link carrying appURL and text.
func ShareURL(appURL, text string) string {
	if appURL == "" {
		appURL = DefaultAppURL
	}
	return shareBase + "?url=" + escape(appURL) + "&text=" + escape(text)
}

// escape percent-encodes s for a query value, spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// TelegramLinkSharer opens the share link so the operator picks the chat to post to.
type TelegramLinkSharer struct {
	appURL string
	open   func(string) error
}

// NewTelegramLinkSharer creates a link sharer. A nil opener uses [shared.OpenURL].
func NewTelegramLinkSharer(appURL string, open func(string) error) *TelegramLinkSharer {
	if open == nil {
		open = shared.OpenURL
	}
	return &TelegramLinkSharer{appURL: appURL, open: open}
}

func (s *TelegramLinkSharer) Share(_ context.Context, text string) error {
	return s.open(ShareURL(s.appURL, text))
}

func (s *TelegramLinkSharer) Name() string { return "telegram-link" }

// TelegramBotSharer posts reports straight into a chat through the Bot API.
type TelegramBotSharer struct {
	api     *APIService
	chatID  string
	appURL  string
	limiter *rate.Limiter
}

// BotSharerOpts configures a [TelegramBotSharer].
type BotSharerOpts struct {
	Token   string
	ChatID  string
	AppURL  string
	BaseURL string // Defaults to the public Bot API
	Client  *http.Client
	// RateLimit caps messages per second; the Bot API allows about one per second per chat.
	RateLimit float64
}

// NewTelegramBotSharer creates a bot sharer. Token and ChatID are required.
func NewTelegramBotSharer(opts BotSharerOpts) (*TelegramBotSharer, error) {
	if opts.Token == "" || opts.ChatID == "" {
		return nil, fmt.Errorf("%w: bot token and chat id are required", shared.ErrMissingCredentials)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = botAPIBase
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 1
	}

	return &TelegramBotSharer{
		api:     NewAPIService(opts.BaseURL+"/bot"+opts.Token, opts.Client),
		chatID:  opts.ChatID,
		appURL:  opts.AppURL,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
	}, nil
}

type sendMessageRequest struct {
	ChatID      string          `json:"chat_id"`
	Text        string          `json:"text"`
	ParseMode   string          `json:"parse_mode,omitempty"`
	ReplyMarkup *inlineKeyboard `json:"reply_markup,omitempty"`
}

type inlineKeyboard struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

type inlineButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type botResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (s *TelegramBotSharer) Share(ctx context.Context, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}

	msg := sendMessageRequest{ChatID: s.chatID, Text: text, ParseMode: "Markdown"}
	if s.appURL != "" {
		msg.ReplyMarkup = &inlineKeyboard{InlineKeyboard: [][]inlineButton{{{Text: "Открыть PRIMA", URL: s.appURL}}}}
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	resp, err := s.api.Post(ctx, "/sendMessage", data)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	var body botResponse
	if err := resp.Decode(&body); err != nil || !resp.OK() || !body.OK {
		return fmt.Errorf("%w: sendMessage status %d: %s", shared.ErrAPIRequest, resp.StatusCode, body.Description)
	}
	return nil
}

func (s *TelegramBotSharer) Name() string { return "telegram-bot" }
