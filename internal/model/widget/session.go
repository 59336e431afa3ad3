package widget

import (
	"context"
	"math"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/kinder-converter/internal/entity/currency"
	"max.ks1230/kinder-converter/internal/logger"
	"max.ks1230/kinder-converter/internal/model/customerr"
	"max.ks1230/kinder-converter/internal/model/engine"
)

type converter interface {
	Convert(source currency.Code, amount float64) (engine.Result, error)
	RandomSample(generate func() int) (engine.Result, error)
	HasRates() bool
}

type valuesStore interface {
	SaveValues(ctx context.Context, sessionID string, values map[currency.Code]string) error
	LoadValues(ctx context.Context, sessionID string) (map[currency.Code]string, error)
}

// Update is the state a field sink has to render after an operation:
// the text of every field (empty means cleared) and the fields that changed.
type Update struct {
	Fields  map[currency.Code]string `json:"fields"`
	Flashed []currency.Code          `json:"flashed"`
}

// Session holds the text of the currency fields of one user.
type Session struct {
	id        string
	converter converter
	store     valuesStore
	generate  func() int

	mu     sync.Mutex
	fields map[currency.Code]string
}

func newSession(id string, converter converter, store valuesStore, generate func() int) *Session {
	return &Session{
		id:        id,
		converter: converter,
		store:     store,
		generate:  generate,
		fields:    emptyFields(),
	}
}

func emptyFields() map[currency.Code]string {
	fields := make(map[currency.Code]string, len(currency.Currencies))
	for _, code := range currency.Currencies {
		fields[code] = ""
	}
	return fields
}

func (s *Session) ID() string {
	return s.id
}

// Fields returns a copy of the current field texts.
func (s *Session) Fields() map[currency.Code]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// HandleInput stores raw as the text of the source field and recomputes the other fields.
// Unparsable or zero input clears them. When the conversion fails the other fields are
// cleared too and the error is returned along with a valid update.
func (s *Session) HandleInput(ctx context.Context, source currency.Code, raw string) (Update, error) {
	if !currency.IsKnown(source) {
		return Update{}, &customerr.UnknownCurrencyError{Currency: string(source)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	update, err := s.handleInput(source, raw)
	s.save(ctx)
	return update, err
}

func (s *Session) handleInput(source currency.Code, raw string) (Update, error) {
	s.fields[source] = raw

	amount := ParseAmount(raw)
	if math.IsNaN(amount) || amount == 0 {
		s.clearExcept(source)
		return Update{Fields: s.snapshot()}, nil
	}

	res, err := s.converter.Convert(source, amount)
	if err != nil {
		logger.Warn("cannot convert input", zap.String("session", s.id), zap.Error(err))
		s.clearExcept(source)
		return Update{Fields: s.snapshot()}, errors.Wrap(err, "handle input")
	}

	var flashed []currency.Code
	for _, code := range currency.Currencies {
		if code == source {
			continue
		}
		value, ok := res[code]
		s.fields[code] = value
		if ok {
			flashed = append(flashed, code)
		}
	}
	return Update{Fields: s.snapshot(), Flashed: flashed}, nil
}

// Lucky fills every field from a random base amount.
func (s *Session) Lucky(ctx context.Context) (Update, error) {
	res, err := s.converter.RandomSample(s.generate)
	if err != nil {
		return Update{}, errors.Wrap(err, "lucky")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var flashed []currency.Code
	for _, code := range currency.Currencies {
		value, ok := res[code]
		s.fields[code] = value
		if ok {
			flashed = append(flashed, code)
		}
	}
	s.save(ctx)
	return Update{Fields: s.snapshot(), Flashed: flashed}, nil
}

// Restore brings back the first non-empty saved field and, when rates are loaded,
// recomputes the others from it.
func (s *Session) Restore(ctx context.Context) (Update, error) {
	saved, err := s.store.LoadValues(ctx, s.id)
	if err != nil {
		return Update{}, errors.Wrap(err, "restore")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.fields = emptyFields()
	for _, code := range currency.Currencies {
		value := saved[code]
		if value == "" {
			continue
		}
		if !s.converter.HasRates() {
			s.fields[code] = value
			return Update{Fields: s.snapshot()}, nil
		}
		update, err := s.handleInput(code, value)
		s.save(ctx)
		return update, err
	}
	return Update{Fields: s.snapshot()}, nil
}

func (s *Session) clearExcept(source currency.Code) {
	for code := range s.fields {
		if code != source {
			s.fields[code] = ""
		}
	}
}

func (s *Session) snapshot() map[currency.Code]string {
	res := make(map[currency.Code]string, len(s.fields))
	for k, v := range s.fields {
		res[k] = v
	}
	return res
}

// save never fails the operation, the fields are already updated in memory.
func (s *Session) save(ctx context.Context) {
	if err := s.store.SaveValues(ctx, s.id, s.snapshot()); err != nil {
		logger.Error("failed to save field values", zap.String("session", s.id), zap.Error(err))
	}
}
