package frankfurter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appconfig "max.ks1230/kinder-converter/internal/config"
	"max.ks1230/kinder-converter/internal/entity/currency"
)

func newTestClient(url string) *Client {
	return New(&appconfig.FrankfurterConfig{
		LatestURL:     url,
		RetryCount:    2,
		BackoffMillis: 1,
	})
}

func Test_OnGetRates_ShouldRequestFromBaseAndParseRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "USD", r.URL.Query().Get("from"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"amount":1.0,"base":"USD","date":"2024-05-17","rates":{"JPY":155.6,"KZT":443.1}}`))
	}))
	defer srv.Close()

	rates, err := newTestClient(srv.URL).GetRates(context.Background(), currency.USD)

	require.NoError(t, err)
	assert.Equal(t, currency.Table{currency.JPY: 155.6, currency.KZT: 443.1}, rates)
}

func Test_OnServerError_ShouldRetryAndSucceed(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"RUB":90}}`))
	}))
	defer srv.Close()

	rates, err := newTestClient(srv.URL).GetRates(context.Background(), currency.USD)

	require.NoError(t, err)
	assert.Equal(t, 90.0, rates[currency.RUB])
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func Test_OnPersistentFailure_ShouldGiveUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetRates(context.Background(), currency.USD)

	assert.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func Test_OnEmptyRates_ShouldFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"USD","rates":{}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetRates(context.Background(), currency.USD)

	assert.Error(t, err)
}

func Test_OnMalformedBody_ShouldFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetRates(context.Background(), currency.USD)

	assert.Error(t, err)
}
