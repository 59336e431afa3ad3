package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"go.uber.org/zap"
	"max.ks1230/kinder-converter/internal/logger"
)

type config interface {
	ServiceName() string
	AgentHostPort() string
	Enabled() bool
}

type nopCloser struct{}

func (nopCloser) Close() error {
	return nil
}

// Init installs the global jaeger tracer. Without an agent address the noop tracer stays in place.
func Init(config config) (io.Closer, error) {
	if !config.Enabled() {
		logger.Info("tracing disabled")
		return nopCloser{}, nil
	}

	cfg := jaegercfg.Configuration{
		ServiceName: config.ServiceName(),
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: config.AgentHostPort(),
		},
	}

	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, errors.Wrap(err, "init jaeger tracer")
	}
	opentracing.SetGlobalTracer(tracer)

	logger.Info("tracing enabled", zap.String("agent", config.AgentHostPort()))
	return closer, nil
}
