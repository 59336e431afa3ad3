package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"max.ks1230/kinder-converter/internal/entity/currency"
)

const (
	ratesKey       = "exchangeRates"
	lastUpdateKey  = "lastUpdate"
	valuesKeyPrefx = "savedValues:"
)

// ErrNotFound is returned by key-value backends for missing keys.
var ErrNotFound = errors.New("not found")

type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Snapshots keeps the last known rate table and the field values of every session.
type Snapshots struct {
	kv kvStore
}

func NewSnapshots(kv kvStore) *Snapshots {
	return &Snapshots{kv: kv}
}

func (s *Snapshots) SaveRates(ctx context.Context, table currency.Table, updatedAt time.Time) error {
	raw, err := json.Marshal(table)
	if err != nil {
		return errors.Wrap(err, "marshal rates")
	}
	if err = s.kv.Set(ctx, ratesKey, raw); err != nil {
		return errors.Wrap(err, "save rates")
	}
	err = s.kv.Set(ctx, lastUpdateKey, []byte(updatedAt.UTC().Format(time.RFC3339)))
	return errors.Wrap(err, "save last update")
}

// LoadRates returns the cached table and the time it was fetched.
// The time is zero when it was never stored.
func (s *Snapshots) LoadRates(ctx context.Context) (currency.Table, time.Time, error) {
	raw, err := s.kv.Get(ctx, ratesKey)
	if err != nil {
		return nil, time.Time{}, errors.Wrap(err, "load rates")
	}

	var table currency.Table
	if err = json.Unmarshal(raw, &table); err != nil {
		return nil, time.Time{}, errors.Wrap(err, "unmarshal rates")
	}

	var updatedAt time.Time
	rawTime, err := s.kv.Get(ctx, lastUpdateKey)
	if err == nil {
		updatedAt, _ = time.Parse(time.RFC3339, string(rawTime))
	}
	return table, updatedAt, nil
}

func (s *Snapshots) SaveValues(ctx context.Context, sessionID string, values map[currency.Code]string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "marshal values")
	}
	err = s.kv.Set(ctx, valuesKeyPrefx+sessionID, raw)
	return errors.Wrap(err, "save values")
}

// LoadValues returns an empty map for sessions that never saved anything.
func (s *Snapshots) LoadValues(ctx context.Context, sessionID string) (map[currency.Code]string, error) {
	values := make(map[currency.Code]string)

	raw, err := s.kv.Get(ctx, valuesKeyPrefx+sessionID)
	if errors.Is(err, ErrNotFound) {
		return values, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load values")
	}

	if err = json.Unmarshal(raw, &values); err != nil {
		return nil, errors.Wrap(err, "unmarshal values")
	}
	return values, nil
}
