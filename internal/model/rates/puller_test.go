package rates

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"max.ks1230/kinder-converter/internal/entity/currency"
	"max.ks1230/kinder-converter/internal/model/engine"
	"max.ks1230/kinder-converter/internal/model/rates/mock"
	"max.ks1230/kinder-converter/internal/model/storage"
)

type pullConfig struct{}

func (pullConfig) PullingDelayMinutes() int64 {
	return 5
}

var fixedNow = time.Date(2024, 5, 17, 14, 7, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

func Test_OnSuccessfulRefresh_ShouldApplyAndPersistRates(t *testing.T) {
	ctx := context.Background()
	eng := engine.New(currency.DefaultKinderPriceRUB)
	store := storage.NewSnapshots(storage.NewInMemStorage())
	provider := mock.NewRatesProviderMock(t)
	recorder := mock.NewHistoryRecorderMock(t)
	publisher := mock.NewEventPublisherMock(t)

	provider.On("GetRates", tmock.Anything, currency.USD).
		Return(currency.Table{currency.RUB: 90, currency.JPY: 150}, nil).Once()
	expected := currency.Table{currency.USD: 1, currency.RUB: 90, currency.JPY: 150, currency.KINDER: 0.9}
	recorder.On("RecordRates", tmock.Anything, expected, fixedNow).Return(nil).Once()
	publisher.On("PublishRates", tmock.Anything, expected, "live", fixedNow).Return(nil).Once()

	p := NewPuller(eng, provider, store, pullConfig{},
		WithRecorder(recorder), WithPublisher(publisher), WithClock(fixedClock))
	status, err := p.Refresh(ctx)

	require.NoError(t, err)
	assert.Equal(t, Status{Source: SourceLive, UpdatedAt: fixedNow}, status)
	assert.Equal(t, status, p.Status())
	assert.Equal(t, expected, eng.Rates())

	cached, at, err := store.LoadRates(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, cached)
	assert.True(t, fixedNow.Equal(at))
}

func Test_OnFailedRefresh_ShouldUseCachedRates(t *testing.T) {
	ctx := context.Background()
	eng := engine.New(currency.DefaultKinderPriceRUB)
	store := storage.NewSnapshots(storage.NewInMemStorage())
	cachedAt := fixedNow.Add(-time.Hour)
	require.NoError(t, store.SaveRates(ctx, currency.Table{currency.USD: 1, currency.RUB: 80}, cachedAt))

	provider := mock.NewRatesProviderMock(t)
	provider.On("GetRates", tmock.Anything, currency.USD).Return(nil, errors.New("boom")).Once()

	p := NewPuller(eng, provider, store, pullConfig{})
	status, err := p.Refresh(ctx)

	assert.Error(t, err)
	assert.Equal(t, SourceCache, status.Source)
	assert.True(t, cachedAt.Equal(status.UpdatedAt))
	assert.Equal(t, 80.0, eng.Rates()[currency.RUB])
	assert.Equal(t, 0.8, eng.Rates()[currency.KINDER])
}

func Test_OnFailedRefreshWithoutCache_ShouldUseFallbackRates(t *testing.T) {
	eng := engine.New(currency.DefaultKinderPriceRUB)
	provider := mock.NewRatesProviderMock(t)
	provider.On("GetRates", tmock.Anything, currency.USD).Return(nil, errors.New("boom")).Once()
	publisher := mock.NewEventPublisherMock(t)
	publisher.On("PublishRates", tmock.Anything, tmock.Anything, "offline", time.Time{}).Return(nil).Once()

	p := NewPuller(eng, provider, storage.NewSnapshots(storage.NewInMemStorage()), pullConfig{},
		WithPublisher(publisher))
	status, err := p.Refresh(context.Background())

	assert.Error(t, err)
	assert.Equal(t, SourceOffline, status.Source)
	assert.Equal(t, currency.Table{
		currency.USD:    1,
		currency.RUB:    92.5,
		currency.KZT:    450,
		currency.JPY:    149,
		currency.KINDER: 0.925,
	}, eng.Rates())
}

func Test_OnInvalidFetchedRates_ShouldFallBack(t *testing.T) {
	eng := engine.New(currency.DefaultKinderPriceRUB)
	provider := mock.NewRatesProviderMock(t)
	provider.On("GetRates", tmock.Anything, currency.USD).
		Return(currency.Table{currency.RUB: -1}, nil).Once()

	p := NewPuller(eng, provider, storage.NewSnapshots(storage.NewInMemStorage()), pullConfig{})
	status, err := p.Refresh(context.Background())

	assert.Error(t, err)
	assert.Equal(t, SourceOffline, status.Source)
	assert.Equal(t, 92.5, eng.Rates()[currency.RUB])
}

type blockingProvider struct {
	calls   int32
	entered chan struct{}
	release chan struct{}
}

func (b *blockingProvider) GetRates(_ context.Context, _ currency.Code) (currency.Table, error) {
	if atomic.AddInt32(&b.calls, 1) == 1 {
		close(b.entered)
	}
	<-b.release
	return currency.Table{currency.RUB: 90}, nil
}

func Test_OnConcurrentRefresh_ShouldFetchOnce(t *testing.T) {
	provider := &blockingProvider{entered: make(chan struct{}), release: make(chan struct{})}
	p := NewPuller(engine.New(0), provider, storage.NewSnapshots(storage.NewInMemStorage()), pullConfig{})

	const callers = 5
	var wg sync.WaitGroup
	statuses := make([]Status, callers)
	wg.Add(1)
	go func() {
		defer wg.Done()
		statuses[0], _ = p.Refresh(context.Background())
	}()
	<-provider.entered

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			statuses[i], _ = p.Refresh(context.Background())
		}(i)
	}
	time.Sleep(100 * time.Millisecond)
	close(provider.release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.calls))
	for _, s := range statuses {
		assert.Equal(t, SourceLive, s.Source)
	}
}

func Test_OnPull_ShouldRefreshImmediatelyAndStopOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	provider := mock.NewRatesProviderMock(t)
	provider.On("GetRates", tmock.Anything, currency.USD).
		Run(func(tmock.Arguments) { cancel() }).
		Return(currency.Table{currency.RUB: 90}, nil).Once()

	p := NewPuller(engine.New(0), provider, storage.NewSnapshots(storage.NewInMemStorage()), pullConfig{})

	done := make(chan struct{})
	go func() {
		p.Pull(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("puller did not stop")
	}
	assert.Equal(t, SourceLive, p.Status().Source)
}

func Test_StatusLabel(t *testing.T) {
	assert.Equal(t, "Rates updated: 14:07", Status{Source: SourceLive, UpdatedAt: fixedNow}.Label())
	assert.Equal(t, "Using cached rates", Status{Source: SourceCache}.Label())
	assert.Equal(t, "Offline mode", Status{Source: SourceOffline}.Label())
	assert.Equal(t, "Rates are not loaded yet", Status{Source: SourceNone}.Label())
}
