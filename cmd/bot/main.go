package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"max.ks1230/kinder-converter/internal/app"
	"max.ks1230/kinder-converter/internal/clients/tg"
	"max.ks1230/kinder-converter/internal/config"
	"max.ks1230/kinder-converter/internal/logger"
	"max.ks1230/kinder-converter/internal/model/messages"
	"max.ks1230/kinder-converter/internal/tracing"
)

func main() {
	logger.Info("Bot init - start")
	defer logger.Sync()

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	tracer, err := tracing.Init(conf.Jaeger())
	if err != nil {
		logger.Fatal("failed to init tracing:", zap.Error(err))
	}
	defer tracer.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	core, err := app.NewCore(ctx, conf)
	if err != nil {
		logger.Fatal("failed to init converter:", zap.Error(err))
	}
	defer core.Close()

	client, err := tg.New(conf.Telegram())
	if err != nil {
		logger.Fatal("failed to init client:", zap.Error(err))
	}

	msgService := messages.NewService(client, core.Sessions, core.Puller, core.Engine)

	logger.Info("Bot init - end")

	go core.Puller.Pull(ctx)
	client.ListenUpdates(ctx, msgService)
}
