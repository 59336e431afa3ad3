package mock

import (
	"context"
	"time"

	tmock "github.com/stretchr/testify/mock"
	"max.ks1230/kinder-converter/internal/entity/currency"
)

type tester interface {
	tmock.TestingT
	Cleanup(func())
}

type HistoryStorageMock struct {
	tmock.Mock
}

func NewHistoryStorageMock(t tester) *HistoryStorageMock {
	m := &HistoryStorageMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *HistoryStorageMock) RatesSince(ctx context.Context, since time.Time) ([]currency.Rate, error) {
	args := m.Called(ctx, since)
	rates, _ := args.Get(0).([]currency.Rate)
	return rates, args.Error(1)
}
