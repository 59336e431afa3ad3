package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"max.ks1230/kinder-converter/internal/api"
	"max.ks1230/kinder-converter/internal/app"
	"max.ks1230/kinder-converter/internal/config"
	"max.ks1230/kinder-converter/internal/logger"
	"max.ks1230/kinder-converter/internal/tracing"
)

func main() {
	logger.Info("Server init - start")
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

	var opts []api.Option
	if core.Reports != nil {
		opts = append(opts, api.WithReports(core.Reports))
	}
	server := api.New(core.Sessions, core.Puller, core.Engine, opts...)

	logger.Info("Server init - end")

	go core.Puller.Pull(ctx)
	go func() {
		<-ctx.Done()
		if err := server.Shutdown(); err != nil {
			logger.Error("failed to shutdown http server", zap.Error(err))
		}
	}()

	if err = server.Listen(conf.HTTP().Addr()); err != nil {
		logger.Error("http server stopped", zap.Error(err))
	}
}
