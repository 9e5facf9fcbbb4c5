package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sayddii/TwitchNotify/config"
)

// statusClient treats anything but 200 as a failed delivery, before the bot
// library gets to decode the body.
type statusClient struct {
	client *http.Client
}

func (c *statusClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("telegram responded with status %d", resp.StatusCode)
	}
	return resp, nil
}

// Telegram sends events as HTML messages to a single chat.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	// used instead of chatID for "@channel" style destinations
	channel string
}

// NewTelegram returns a sender for the configured chat. endpoint follows the
// tgbotapi.APIEndpoint format; an empty endpoint selects the public Bot API.
func NewTelegram(cfg *config.Config, endpoint string) *Telegram {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot := &tgbotapi.BotAPI{
		Token: cfg.Telegram.BotToken,
		Client: &statusClient{
			client: &http.Client{Timeout: cfg.Notifier.RequestTimeout},
		},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(endpoint)

	t := &Telegram{bot: bot}
	if id, err := strconv.ParseInt(cfg.Telegram.ChatID, 10, 64); err == nil {
		t.chatID = id
	} else {
		t.channel = cfg.Telegram.ChatID
	}
	return t
}

// Self asks the Bot API which account the token belongs to.
func (t *Telegram) Self() (string, error) {
	me, err := t.bot.GetMe()
	if err != nil {
		return "", fmt.Errorf("telegram getMe: %w", err)
	}
	return me.UserName, nil
}

func (t *Telegram) Send(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg tgbotapi.MessageConfig
	if t.channel != "" {
		msg = tgbotapi.NewMessageToChannel(t.channel, e.Message())
	} else {
		msg = tgbotapi.NewMessage(t.chatID, e.Message())
	}
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage for %s: %w", e.ChannelName, err)
	}
	return nil
}
