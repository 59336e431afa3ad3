package api

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"max.ks1230/kinder-converter/internal/entity/currency"
	"max.ks1230/kinder-converter/internal/logger"
	"max.ks1230/kinder-converter/internal/model/rates"
	"max.ks1230/kinder-converter/internal/model/reports"
	"max.ks1230/kinder-converter/internal/model/widget"
)

type sessionRegistry interface {
	Create() *widget.Session
	Lookup(id string) (*widget.Session, bool)
}

type ratesSource interface {
	Status() rates.Status
	Refresh(ctx context.Context) (rates.Status, error)
}

type ratesReader interface {
	Rates() currency.Table
}

type reportGenerator interface {
	GenerateReport(ctx context.Context, period string) (reports.Report, error)
}

type Option func(s *Server)

// WithReports enables the rates history endpoint.
func WithReports(gen reportGenerator) Option {
	return func(s *Server) {
		s.reports = gen
	}
}

// Server exposes the converter over HTTP.
type Server struct {
	app      *fiber.App
	sessions sessionRegistry
	puller   ratesSource
	rates    ratesReader
	reports  reportGenerator
}

func New(sessions sessionRegistry, puller ratesSource, reader ratesReader, opts ...Option) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ErrorHandler:          errorHandler,
		}),
		sessions: sessions,
		puller:   puller,
		rates:    reader,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.buildRoutes()
	return s
}

func (s *Server) buildRoutes() {
	s.app.Use(recover.New())
	s.app.Use(observe)

	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api")
	api.Get("/rates", s.getRates)
	api.Post("/rates/refresh", s.refreshRates)
	api.Get("/rates/history", s.ratesHistory)

	api.Post("/sessions", s.createSession)
	api.Get("/sessions/:id", s.getSession)
	api.Post("/sessions/:id/input", s.input)
	api.Post("/sessions/:id/lucky", s.lucky)
	api.Post("/sessions/:id/restore", s.restore)
}

func (s *Server) Listen(addr string) error {
	logger.Info("Start serving http", zap.String("addr", addr))
	return errors.Wrap(s.app.Listen(addr), "listen")
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func observe(c *fiber.Ctx) error {
	span, ctx := opentracing.StartSpanFromContext(c.UserContext(), "http "+c.Method()+" "+c.Path())
	defer span.Finish()
	c.SetUserContext(ctx)

	start := time.Now()
	err := c.Next()
	elapsed := time.Since(start)

	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		status = fiber.StatusInternalServerError
		if errors.As(err, &fe) {
			status = fe.Code
		}
		ext.Error.Set(span, true)
	}
	ext.HTTPStatusCode.Set(span, uint16(status))

	route := c.Route().Path
	histogramResponseTime.WithLabelValues(route, strconv.Itoa(status)).Observe(elapsed.Seconds())
	logger.Debug("http request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed),
	)
	return err
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	} else {
		logger.Error("http handler failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(errorResponse{Error: err.Error()})
}
