package frankfurter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/eapache/go-resiliency/retrier"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"max.ks1230/kinder-converter/internal/entity/currency"
	"max.ks1230/kinder-converter/internal/logger"
)

const (
	fromParam = "from"

	requestsPerSecond = 1
	requestsBurst     = 10
)

type config interface {
	URL() string
	Timeout() time.Duration
	Retries() int
	RetryBackoff() time.Duration
}

// Client fetches the latest rates from a frankfurter-compatible API.
type Client struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
	retrier    *retrier.Retrier
}

type ratesResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

func New(config config) *Client {
	return &Client{
		url:        config.URL(),
		httpClient: &http.Client{Timeout: config.Timeout()},
		limiter:    rate.NewLimiter(rate.Every(time.Second/requestsPerSecond), requestsBurst),
		retrier:    retrier.New(retrier.ExponentialBackoff(config.Retries(), config.RetryBackoff()), nil),
	}
}

// GetRates returns the amount of every listed currency bought by one unit of base.
func (c *Client) GetRates(ctx context.Context, base currency.Code) (currency.Table, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "frankfurter.GetRates")
	defer span.Finish()
	span.SetTag("base", string(base))

	var rates currency.Table
	err := c.retrier.RunCtx(ctx, func(ctx context.Context) error {
		var err error
		rates, err = c.fetch(ctx, base)
		if err != nil {
			logger.Warn("rates request failed", zap.Error(err))
		}
		return err
	})
	if err != nil {
		ext.Error.Set(span, true)
		return nil, errors.Wrap(err, "get rates")
	}
	return rates, nil
}

func (c *Client) fetch(ctx context.Context, base currency.Code) (currency.Table, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "waiting for rate limiter")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	q := req.URL.Query()
	q.Add(fromParam, string(base))
	req.URL.RawQuery = q.Encode()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "doing request")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}
	logger.Debug("new response from frankfurter", zap.ByteString("body", body))

	rates := ratesResponse{}
	err = json.Unmarshal(body, &rates)
	if err != nil {
		return nil, errors.Wrap(err, "unmarshalling response")
	}
	if len(rates.Rates) == 0 {
		return nil, errors.New("response has no rates")
	}

	table := make(currency.Table, len(rates.Rates))
	for name, value := range rates.Rates {
		table[currency.Code(name)] = value
	}
	return table, nil
}
