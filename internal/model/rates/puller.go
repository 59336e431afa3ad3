package rates

import (
	"context"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"max.ks1230/kinder-converter/internal/entity/currency"
	"max.ks1230/kinder-converter/internal/logger"
)

const refreshKey = "refresh"

type ratesProvider interface {
	GetRates(ctx context.Context, base currency.Code) (currency.Table, error)
}

type ratesEngine interface {
	SetRates(raw currency.Table) error
	Rates() currency.Table
}

type snapshotStore interface {
	SaveRates(ctx context.Context, table currency.Table, updatedAt time.Time) error
	LoadRates(ctx context.Context) (currency.Table, time.Time, error)
}

type historyRecorder interface {
	RecordRates(ctx context.Context, table currency.Table, at time.Time) error
}

type eventPublisher interface {
	PublishRates(ctx context.Context, table currency.Table, source string, updatedAt time.Time) error
}

type config interface {
	PullingDelayMinutes() int64
}

type Option func(p *Puller)

// WithRecorder keeps the history of every successfully fetched table.
func WithRecorder(r historyRecorder) Option {
	return func(p *Puller) {
		p.recorder = r
	}
}

// WithPublisher announces every applied table.
func WithPublisher(pub eventPublisher) Option {
	return func(p *Puller) {
		p.publisher = pub
	}
}

func WithClock(clock func() time.Time) Option {
	return func(p *Puller) {
		p.clock = clock
	}
}

// Puller keeps the engine rates fresh. At most one fetch is in flight at a time;
// concurrent Refresh calls share its result.
type Puller struct {
	engine       ratesEngine
	provider     ratesProvider
	store        snapshotStore
	recorder     historyRecorder
	publisher    eventPublisher
	pullingDelay time.Duration
	clock        func() time.Time

	group singleflight.Group

	mu     sync.RWMutex
	status Status
}

func NewPuller(engine ratesEngine, provider ratesProvider, store snapshotStore, config config, opts ...Option) *Puller {
	p := &Puller{
		engine:       engine,
		provider:     provider,
		store:        store,
		pullingDelay: time.Duration(config.PullingDelayMinutes()) * time.Minute,
		clock:        time.Now,
		status:       Status{Source: SourceNone},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Puller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

func (p *Puller) Pull(ctx context.Context) {
	ticker := time.NewTicker(p.pullingDelay)
	defer ticker.Stop()
	firstTick := make(chan struct{}, 1)
	firstTick <- struct{}{}

	logger.Info("Start pulling rates")
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stop pulling rates")
			return
		// fake first tick to pull rates immediately
		case <-firstTick:
			_, _ = p.Refresh(ctx)
		case <-ticker.C:
			_, _ = p.Refresh(ctx)
		}
	}
}

// Refresh fetches a new table and applies it. When the fetch fails, the cached table
// or, failing that, the built-in fallback table is applied and the fetch error is returned
// along with the resulting status.
func (p *Puller) Refresh(ctx context.Context) (Status, error) {
	res, err, shared := p.group.Do(refreshKey, func() (interface{}, error) {
		return p.refresh(ctx)
	})
	if shared {
		logger.Debug("joined in-flight rates refresh")
	}
	status, _ := res.(Status)
	return status, err
}

func (p *Puller) refresh(ctx context.Context) (Status, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "refreshRates")
	defer span.Finish()

	logger.Info("Pulling current rates...")
	start := time.Now()

	pulled, err := p.provider.GetRates(ctx, currency.Base)
	if err == nil {
		err = p.engine.SetRates(pulled)
	}
	if err == nil {
		status := Status{Source: SourceLive, UpdatedAt: p.clock()}
		p.setStatus(status)
		p.persist(ctx, status)
		observeRefresh(status.Source, time.Since(start))
		logger.Info("Successfully pulled current rates")
		return status, nil
	}

	ext.Error.Set(span, true)
	logger.Error("cannot get rates", zap.Error(err))

	status := p.fallback(ctx)
	p.setStatus(status)
	p.publish(ctx, status)
	observeRefresh(status.Source, time.Since(start))
	return status, errors.Wrap(err, "refresh rates")
}

func (p *Puller) fallback(ctx context.Context) Status {
	cached, updatedAt, err := p.store.LoadRates(ctx)
	if err == nil {
		err = p.engine.SetRates(cached)
	}
	if err == nil {
		logger.Info("using cached rates", zap.Time("updatedAt", updatedAt))
		return Status{Source: SourceCache, UpdatedAt: updatedAt}
	}
	logger.Warn("cached rates unavailable", zap.Error(err))

	if err = p.engine.SetRates(currency.FallbackRates()); err != nil {
		logger.Error("cannot apply fallback rates", zap.Error(err))
	}
	return Status{Source: SourceOffline}
}

func (p *Puller) persist(ctx context.Context, status Status) {
	table := p.engine.Rates()

	if err := p.store.SaveRates(ctx, table, status.UpdatedAt); err != nil {
		logger.Error("failed to save rates", zap.Error(err))
	}
	if p.recorder != nil {
		if err := p.recorder.RecordRates(ctx, table, status.UpdatedAt); err != nil {
			logger.Error("failed to record rates history", zap.Error(err))
		}
	}
	p.publish(ctx, status)
}

func (p *Puller) publish(ctx context.Context, status Status) {
	if p.publisher == nil {
		return
	}
	err := p.publisher.PublishRates(ctx, p.engine.Rates(), string(status.Source), status.UpdatedAt)
	if err != nil {
		logger.Error("failed to publish rates", zap.Error(err))
	}
}

func (p *Puller) setStatus(status Status) {
	p.mu.Lock()
	p.status = status
	p.mu.Unlock()
}
