package api

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	models "KuRelay/internal/domain/models"
	"KuRelay/internal/service/kucoin"
	"KuRelay/internal/usecase"
	xhttp "KuRelay/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upstream struct {
	srv   *httptest.Server
	calls int32
	last  atomic.Value // raw query of the last request
}

func newUpstream(t *testing.T, status int, body string) *upstream {
	t.Helper()
	u := &upstream{}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&u.calls, 1)
		u.last.Store(r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func newTestServer(t *testing.T, baseURL string, creds models.Credentials) *xhttp.Server {
	t.Helper()
	client := kucoin.New(kucoin.Config{BaseURL: baseURL, Credentials: creds, EncodeSymbol: true},
		xhttp.NewClient(xhttp.WithTimeout(2*time.Second)), nil)
	relay := usecase.NewFillsRelay(creds, client, nil, nil)
	h := NewKuCoinEchoHandler(nil, relay, models.FillsQuery{Symbol: "BTC-USDT", Days: 1})
	return xhttp.NewServer(h, nil,
		xhttp.WithAllowOrigins([]string{"https://zolpho.github.io", "https://eqty.me"}),
		xhttp.WithMetricsPath(""),
	)
}

func do(s *xhttp.Server, method, target, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

var creds = models.Credentials{APIKey: "k", APISecret: "s", APIPassphrase: "p"}

func TestFillsPassThrough(t *testing.T) {
	up := newUpstream(t, http.StatusOK, `{"code":"200000","data":{"items":[]}}`)
	s := newTestServer(t, up.srv.URL, creds)

	rec := do(s, http.MethodGet, "/kucoin/fills", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"code":"200000","data":{"items":[]}}`, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, int32(1), atomic.LoadInt32(&up.calls))
	assert.Contains(t, up.last.Load().(string), "symbol=BTC-USDT&startAt=")
}

func TestFillsPassesUpstreamRejection(t *testing.T) {
	body := `{"code":"400005","msg":"Invalid KC-API-SIGN"}`
	up := newUpstream(t, http.StatusUnauthorized, body)
	s := newTestServer(t, up.srv.URL, creds)

	rec := do(s, http.MethodGet, "/kucoin/fills?symbol=ETH-USDT&days=3", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, rec.Body.String())
	assert.Contains(t, up.last.Load().(string), "symbol=ETH-USDT&")
}

func TestFillsMissingCredentials(t *testing.T) {
	up := newUpstream(t, http.StatusOK, `{}`)
	s := newTestServer(t, up.srv.URL, models.Credentials{})

	rec := do(s, http.MethodGet, "/kucoin/fills", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":"KuCoin credentials not configured"}`, rec.Body.String())
	assert.Equal(t, int32(0), atomic.LoadInt32(&up.calls))
}

func TestFillsRejectsBadDays(t *testing.T) {
	up := newUpstream(t, http.StatusOK, `{}`)
	s := newTestServer(t, up.srv.URL, creds)

	for _, q := range []string{"days=0", "days=-2", "days=abc"} {
		t.Run(q, func(t *testing.T) {
			rec := do(s, http.MethodGet, "/kucoin/fills?"+q, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&up.calls))
}

func TestFillsMalformedUpstream(t *testing.T) {
	up := newUpstream(t, http.StatusOK, `not json`)
	s := newTestServer(t, up.srv.URL, creds)

	rec := do(s, http.MethodGet, "/kucoin/fills", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_BAD_GATEWAY")
}

func TestTradesNormalized(t *testing.T) {
	up := newUpstream(t, http.StatusOK,
		`{"code":"200000","data":{"items":[{"symbol":"BTC-USDT","side":"buy","price":"1","size":"2","feeRate":"0.002","tradeTime":1700000000000000000}]}}`)
	s := newTestServer(t, up.srv.URL, creds)

	rec := do(s, http.MethodGet, "/kucoin/trades", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"trades":[{"trade_timestamp":1700000000000,"symbol":"BTC-USDT","trade_type":"BUY","price":"1","quantity":"2","market":"kucoin","raw_json":{"trade_fee":{"percent":0.002}}}],"total":1}`,
		rec.Body.String())
}

func TestTradesUpstreamRejected(t *testing.T) {
	up := newUpstream(t, http.StatusOK, `{"code":"400100","msg":"Parameter error"}`)
	s := newTestServer(t, up.srv.URL, creds)

	rec := do(s, http.MethodGet, "/kucoin/trades", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Parameter error","code":"400100"}`, rec.Body.String())
}

func TestTradesMissingCredentials(t *testing.T) {
	up := newUpstream(t, http.StatusOK, `{}`)
	s := newTestServer(t, up.srv.URL, models.Credentials{APIKey: "k"})

	rec := do(s, http.MethodGet, "/kucoin/trades", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"KuCoin credentials not configured"}`, rec.Body.String())
	assert.Equal(t, int32(0), atomic.LoadInt32(&up.calls))
}

func TestCORS(t *testing.T) {
	up := newUpstream(t, http.StatusOK, `{"code":"200000"}`)
	s := newTestServer(t, up.srv.URL, creds)

	t.Run("preflight", func(t *testing.T) {
		rec := do(s, http.MethodOptions, "/kucoin/fills", "https://eqty.me")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, "https://eqty.me", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		rec := do(s, http.MethodGet, "/kucoin/fills", "https://evil.example")
		assert.Equal(t, "https://zolpho.github.io", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	assert.Equal(t, int32(1), atomic.LoadInt32(&up.calls))
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1", creds)

	rec := do(s, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
