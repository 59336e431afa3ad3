package tg

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/kinder-converter/internal/logger"
	"max.ks1230/kinder-converter/internal/model/messages"
)

const (
	defaultUpdateOffset = 0
	pollTimeoutSeconds  = 60
	handleTimeout       = 5 * time.Second
)

type tokenGetter interface {
	Token() string
}

type messageHandler interface {
	HandleIncomingMessage(ctx context.Context, msg messages.Message) error
}

type Client struct {
	client *tgbotapi.BotAPI
}

func New(tokenGetter tokenGetter) (*Client, error) {
	client, err := tgbotapi.NewBotAPI(tokenGetter.Token())
	if err != nil {
		return nil, errors.Wrap(err, "cannot NewBotApi")
	}
	logger.Info("authorized on telegram", zap.String("bot", client.Self.UserName))
	return &Client{client}, nil
}

func (c *Client) SendMessage(text string, chatID int64) error {
	_, err := c.client.Send(tgbotapi.NewMessage(chatID, text))
	return errors.Wrap(err, "client.Send")
}

// ListenUpdates handles text messages one by one until ctx is done.
func (c *Client) ListenUpdates(ctx context.Context, handler messageHandler) {
	u := tgbotapi.NewUpdate(defaultUpdateOffset)
	u.Timeout = pollTimeoutSeconds

	updates := c.client.GetUpdatesChan(u)
	defer c.client.StopReceivingUpdates()

	logger.Info("Start listening for messages")
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stop listening for messages")
			return
		case update, ok := <-updates:
			if !ok {
				logger.Warn("telegram updates channel closed")
				return
			}
			if msg, ok := toMessage(update); ok {
				c.handle(ctx, msg, handler)
			}
		}
	}
}

func (c *Client) handle(ctx context.Context, msg messages.Message, handler messageHandler) {
	logger.Info("incoming message", zap.String("user", msg.UserName), zap.String("text", msg.Text))

	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	if err := handler.HandleIncomingMessage(ctx, msg); err != nil {
		logger.Error("error processing message", zap.Error(err))
	}
}

func toMessage(update tgbotapi.Update) (messages.Message, bool) {
	m := update.Message
	if m == nil || m.From == nil || m.Text == "" {
		return messages.Message{}, false
	}

	msg := messages.Message{
		Text:     m.Text,
		UserID:   m.From.ID,
		UserName: m.From.UserName,
	}
	if m.Chat != nil {
		msg.ChatID = m.Chat.ID
	}
	return msg, true
}
