package mock

import (
	"context"

	tmock "github.com/stretchr/testify/mock"
	"max.ks1230/kinder-converter/internal/model/rates"
)

type tester interface {
	tmock.TestingT
	Cleanup(func())
}

type MessageSenderMock struct {
	tmock.Mock
}

func NewMessageSenderMock(t tester) *MessageSenderMock {
	m := &MessageSenderMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MessageSenderMock) SendMessage(text string, chatID int64) error {
	return m.Called(text, chatID).Error(0)
}

type RatesSourceMock struct {
	tmock.Mock
}

func NewRatesSourceMock(t tester) *RatesSourceMock {
	m := &RatesSourceMock{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *RatesSourceMock) Status() rates.Status {
	return m.Called().Get(0).(rates.Status)
}

func (m *RatesSourceMock) Refresh(ctx context.Context) (rates.Status, error) {
	args := m.Called(ctx)
	return args.Get(0).(rates.Status), args.Error(1)
}
