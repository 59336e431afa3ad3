package messages

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/kinder-converter/internal/logger"
)

const failureMessage = "Sorry, something went wrong..."

type messageSender interface {
	SendMessage(text string, chatID int64) error
}

// Message is a text received in a telegram chat. Sessions are kept per user,
// replies go to the chat, which is the user itself in private chats.
type Message struct {
	Text     string
	UserID   int64
	ChatID   int64
	UserName string
}

func (m Message) replyTo() int64 {
	if m.ChatID == 0 {
		return m.UserID
	}
	return m.ChatID
}

type Service struct {
	sender  messageSender
	handler *HandlerService
}

func NewService(sender messageSender, sessions sessionProvider, puller ratesSource, reader ratesReader) *Service {
	return &Service{
		sender:  sender,
		handler: newHandler(sessions, puller, reader),
	}
}

func (s *Service) HandleIncomingMessage(ctx context.Context, msg Message) error {
	cmd := s.handler.commandLabel(msg.Text)

	span, ctx := opentracing.StartSpanFromContext(ctx, "telegram.message")
	defer span.Finish()
	span.SetTag("command", cmd)

	start := time.Now()
	reply, err := s.handler.HandleMessage(ctx, msg.Text, msg.UserID)
	if err != nil {
		logger.Error("cannot handle message",
			zap.String("user", msg.UserName),
			zap.String("command", cmd),
			zap.Error(err))
		reply = withFailure(reply)
	}

	sendErr := s.sender.SendMessage(reply, msg.replyTo())
	failed := err != nil || sendErr != nil
	observeResponse(cmd, time.Since(start), failed)
	if failed {
		ext.Error.Set(span, true)
	}

	if err != nil {
		return err
	}
	return errors.Wrap(sendErr, "send reply")
}

func withFailure(reply string) string {
	if reply == "" {
		return failureMessage
	}
	return failureMessage + "\n" + reply
}
