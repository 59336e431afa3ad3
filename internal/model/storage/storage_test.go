package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/kinder-converter/internal/entity/currency"
)

func Test_OnSaveRates_ShouldLoadSameTableAndTime(t *testing.T) {
	ctx := context.Background()
	s := NewSnapshots(NewInMemStorage())
	at := time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)
	table := currency.Table{currency.USD: 1, currency.RUB: 92.5, currency.KINDER: 0.925}

	require.NoError(t, s.SaveRates(ctx, table, at))
	loaded, loadedAt, err := s.LoadRates(ctx)

	require.NoError(t, err)
	assert.Equal(t, table, loaded)
	assert.True(t, at.Equal(loadedAt))
}

func Test_OnLoadRatesFromEmptyStore_ShouldReturnNotFound(t *testing.T) {
	s := NewSnapshots(NewInMemStorage())

	_, _, err := s.LoadRates(context.Background())

	assert.ErrorIs(t, err, ErrNotFound)
}

func Test_OnCorruptedRates_ShouldFail(t *testing.T) {
	ctx := context.Background()
	kv := NewInMemStorage()
	require.NoError(t, kv.Set(ctx, ratesKey, []byte("{broken")))

	_, _, err := NewSnapshots(kv).LoadRates(ctx)

	assert.Error(t, err)
}

func Test_OnSaveValues_ShouldKeepSessionsApart(t *testing.T) {
	ctx := context.Background()
	s := NewSnapshots(NewInMemStorage())

	require.NoError(t, s.SaveValues(ctx, "a", map[currency.Code]string{currency.USD: "10"}))
	require.NoError(t, s.SaveValues(ctx, "b", map[currency.Code]string{currency.RUB: "5"}))

	a, err := s.LoadValues(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, map[currency.Code]string{currency.USD: "10"}, a)

	b, err := s.LoadValues(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, map[currency.Code]string{currency.RUB: "5"}, b)
}

func Test_OnLoadValuesOfNewSession_ShouldReturnEmptyMap(t *testing.T) {
	values, err := NewSnapshots(NewInMemStorage()).LoadValues(context.Background(), "new")

	assert.NoError(t, err)
	assert.Empty(t, values)
}

func Test_InMemStorage_ShouldCopyValues(t *testing.T) {
	ctx := context.Background()
	kv := NewInMemStorage()
	value := []byte("abc")

	require.NoError(t, kv.Set(ctx, "k", value))
	value[0] = 'x'
	got, err := kv.Get(ctx, "k")

	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}
