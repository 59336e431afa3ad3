package reports

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"max.ks1230/kinder-converter/internal/entity/currency"
	"max.ks1230/kinder-converter/internal/model/reports/mock"
)

// a Friday
var fixedNow = time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)

func newTestGenerator(storage historyStorage) *Generator {
	g := NewGenerator(storage)
	g.clock = func() time.Time { return fixedNow }
	return g
}

func Test_OnGenerateReport_ShouldSummarisePerCurrencyInDisplayOrder(t *testing.T) {
	storage := mock.NewHistoryStorageMock(t)
	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }

	storage.On("RatesSince", tmock.Anything, since).Return([]currency.Rate{
		{Name: currency.JPY, BaseRate: 150, UpdatedAt: day(2)},
		{Name: currency.RUB, BaseRate: 90, UpdatedAt: day(2)},
		{Name: currency.RUB, BaseRate: 94, UpdatedAt: day(3)},
		{Name: currency.JPY, BaseRate: 148, UpdatedAt: day(3)},
		{Name: currency.RUB, BaseRate: 92, UpdatedAt: day(4)},
	}, nil).Once()

	report, err := newTestGenerator(storage).GenerateReport(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "month", report.Period)
	assert.Equal(t, since, report.Since)
	assert.Equal(t, []Record{
		{Currency: currency.RUB, Min: 90, Max: 94, Avg: 92, Last: 92, Samples: 3},
		{Currency: currency.JPY, Min: 148, Max: 150, Avg: 149, Last: 148, Samples: 2},
	}, report.Records)
}

func Test_OnPeriod_ShouldQueryFromItsBeginning(t *testing.T) {
	tests := []struct {
		period string
		since  time.Time
	}{
		{"week", time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)},
		{"month", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"year", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			storage := mock.NewHistoryStorageMock(t)
			storage.On("RatesSince", tmock.Anything, tt.since).Return(nil, nil).Once()

			report, err := newTestGenerator(storage).GenerateReport(context.Background(), tt.period)

			require.NoError(t, err)
			assert.Empty(t, report.Records)
		})
	}
}

func Test_OnUnknownPeriod_ShouldFail(t *testing.T) {
	storage := mock.NewHistoryStorageMock(t)

	_, err := newTestGenerator(storage).GenerateReport(context.Background(), "decade")

	assert.True(t, errors.Is(err, ErrUnknownPeriod))
}

func Test_OnStorageFailure_ShouldFail(t *testing.T) {
	storage := mock.NewHistoryStorageMock(t)
	storage.On("RatesSince", tmock.Anything, tmock.Anything).Return(nil, errors.New("db is down")).Once()

	_, err := newTestGenerator(storage).GenerateReport(context.Background(), "year")

	assert.Error(t, err)
}
