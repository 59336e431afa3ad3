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

type RatesProviderMock struct {
	tmock.Mock
}

func NewRatesProviderMock(t tester) *RatesProviderMock {
	m := &RatesProviderMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RatesProviderMock) GetRates(ctx context.Context, base currency.Code) (currency.Table, error) {
	args := m.Called(ctx, base)
	table, _ := args.Get(0).(currency.Table)
	return table, args.Error(1)
}

type HistoryRecorderMock struct {
	tmock.Mock
}

func NewHistoryRecorderMock(t tester) *HistoryRecorderMock {
	m := &HistoryRecorderMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *HistoryRecorderMock) RecordRates(ctx context.Context, table currency.Table, at time.Time) error {
	return m.Called(ctx, table, at).Error(0)
}

type EventPublisherMock struct {
	tmock.Mock
}

func NewEventPublisherMock(t tester) *EventPublisherMock {
	m := &EventPublisherMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EventPublisherMock) PublishRates(ctx context.Context, table currency.Table, source string, updatedAt time.Time) error {
	return m.Called(ctx, table, source, updatedAt).Error(0)
}
