package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jinzhu/now"
	"go.uber.org/zap"
	"max.ks1230/kinder-converter/internal/logger"

	// postgres driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"max.ks1230/kinder-converter/internal/entity/currency"
)

const dsnTemplate = "user=%s password=%s host=%s port=%d dbname=%s sslmode=%s"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type config interface {
	Host() string
	Port() int
	Username() string
	Password() string
	Database() string
	SSLMode() string
}

// PostgresStorage is a key-value backend that also keeps the history of fetched rates.
type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Port(),
		config.Database(),
		config.SSLMode()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return connect(db)
}

func connect(db *sql.DB) (*PostgresStorage, error) {
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return &PostgresStorage{db}, nil
}

func newPostgresStorageWithDB(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db}
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

func (s *PostgresStorage) Get(ctx context.Context, key string) ([]byte, error) {
	query := psql.Select("value").
		From("kv").
		Where(sq.Eq{"key": key})

	var value []byte
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get value")
	}
	return value, nil
}

func (s *PostgresStorage) Set(ctx context.Context, key string, value []byte) error {
	query := psql.Insert("kv").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now()).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at")

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "set value")
}

// RecordRates appends table to the rates history and drops entries older than the current year.
func (s *PostgresStorage) RecordRates(ctx context.Context, table currency.Table, at time.Time) error {
	if len(table) == 0 {
		return nil
	}

	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, string(name))
	}
	sort.Strings(names)

	insert := psql.Insert("rates").Columns("name", "base_rate", "updated_at")
	for _, name := range names {
		insert = insert.Values(name, table[currency.Code(name)], at)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "record rates")
	}
	defer func() {
		txErr := tx.Rollback()
		if txErr != nil && !errors.Is(txErr, sql.ErrTxDone) {
			logger.Error("error when transaction rollback", zap.Error(txErr))
		}
	}()

	if _, err = insert.RunWith(tx).ExecContext(ctx); err != nil {
		return errors.Wrap(err, "record rates")
	}

	prune := psql.Delete("rates").Where(sq.Lt{"updated_at": now.With(at).BeginningOfYear()})
	if _, err = prune.RunWith(tx).ExecContext(ctx); err != nil {
		return errors.Wrap(err, "prune rates")
	}

	return errors.Wrap(tx.Commit(), "record rates")
}

// RatesSince returns the history entries recorded at or after since, oldest first.
func (s *PostgresStorage) RatesSince(ctx context.Context, since time.Time) ([]currency.Rate, error) {
	query := psql.Select("name", "base_rate", "updated_at").
		From("rates").
		Where(sq.GtOrEq{"updated_at": since}).
		OrderBy("updated_at", "name")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "select rates")
	}
	defer rows.Close()

	var res []currency.Rate
	for rows.Next() {
		var rate currency.Rate
		if err = rows.Scan(&rate.Name, &rate.BaseRate, &rate.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan rate")
		}
		res = append(res, rate)
	}
	return res, errors.Wrap(rows.Err(), "select rates")
}
