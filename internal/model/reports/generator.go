package reports

import (
	"context"
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/kinder-converter/internal/entity/currency"
	"max.ks1230/kinder-converter/internal/logger"
)

const defaultPeriod = "month"

var ErrUnknownPeriod = errors.New("report period is not supported")

var reportFilters = map[string]func(t time.Time) time.Time{
	"week":  func(t time.Time) time.Time { return now.With(t).BeginningOfWeek() },
	"month": func(t time.Time) time.Time { return now.With(t).BeginningOfMonth() },
	"year":  func(t time.Time) time.Time { return now.With(t).BeginningOfYear() },
}

type historyStorage interface {
	RatesSince(ctx context.Context, since time.Time) ([]currency.Rate, error)
}

// Record summarises the history of one currency.
type Record struct {
	Currency currency.Code `json:"currency"`
	Min      float64       `json:"min"`
	Max      float64       `json:"max"`
	Avg      float64       `json:"avg"`
	Last     float64       `json:"last"`
	Samples  int           `json:"samples"`
}

type Report struct {
	Period  string    `json:"period"`
	Since   time.Time `json:"since"`
	Records []Record  `json:"records"`
}

type Generator struct {
	storage historyStorage
	clock   func() time.Time
}

func NewGenerator(storage historyStorage) *Generator {
	return &Generator{
		storage: storage,
		clock:   time.Now,
	}
}

// GenerateReport summarises the rates recorded since the beginning of the current week, month or year.
// An empty period means month.
func (g *Generator) GenerateReport(ctx context.Context, period string) (Report, error) {
	logger.Info("GenerateReport - start", zap.String("period", period))
	defer logger.Info("GenerateReport - end")

	if period == "" {
		period = defaultPeriod
	}
	filter, ok := reportFilters[period]
	if !ok {
		return Report{}, errors.Wrap(ErrUnknownPeriod, period)
	}

	since := filter(g.clock())
	history, err := g.storage.RatesSince(ctx, since)
	if err != nil {
		return Report{}, errors.Wrap(err, "generate report")
	}

	return Report{
		Period:  period,
		Since:   since,
		Records: groupRates(history),
	}, nil
}

// groupRates expects history ordered by time and keeps the display order of currencies.
func groupRates(history []currency.Rate) []Record {
	byCode := make(map[currency.Code]*Record)
	sums := make(map[currency.Code]float64)
	for _, rate := range history {
		rec, ok := byCode[rate.Name]
		if !ok {
			rec = &Record{Currency: rate.Name, Min: rate.BaseRate, Max: rate.BaseRate}
			byCode[rate.Name] = rec
		}
		if rate.BaseRate < rec.Min {
			rec.Min = rate.BaseRate
		}
		if rate.BaseRate > rec.Max {
			rec.Max = rate.BaseRate
		}
		rec.Last = rate.BaseRate
		rec.Samples++
		sums[rate.Name] += rate.BaseRate
	}

	records := make([]Record, 0, len(byCode))
	for _, code := range currency.Currencies {
		rec, ok := byCode[code]
		if !ok {
			continue
		}
		rec.Avg = sums[code] / float64(rec.Samples)
		records = append(records, *rec)
	}
	return records
}

func ReportPeriods() []string {
	return []string{"week", "month", "year"}
}
