package kucoin

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"KuRelay/internal/domain/models"
	drepo "KuRelay/internal/domain/repository"
	apphttp "KuRelay/pkg/http"
	applogger "KuRelay/pkg/logger"

	"github.com/tidwall/gjson"
)

// Config holds what the client needs from process configuration.
type Config struct {
	BaseURL      string
	Credentials  models.Credentials
	Limit        int
	EncodeSymbol bool
}

// SignedRequest is one outbound call, ready to send.
type SignedRequest struct {
	Endpoint  string
	Timestamp int64
	Headers   map[string]string
}

// Client signs and forwards fills queries to KuCoin.
type Client struct {
	cfg    Config
	signer *Signer
	http   *apphttp.Client
	logger *applogger.Logger
	now    func() time.Time
}

var _ drepo.FillsSource = (*Client)(nil)

// New creates a KuCoin REST client. The http client carries the per-request timeout.
func New(cfg Config, httpClient *apphttp.Client, l *applogger.Logger) *Client {
	if cfg.Limit <= 0 {
		cfg.Limit = 100
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		httpClient = apphttp.NewClient()
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &Client{
		cfg:    cfg,
		signer: NewSigner(cfg.Credentials.APIKey, cfg.Credentials.APISecret, cfg.Credentials.APIPassphrase),
		http:   httpClient,
		logger: l,
		now:    time.Now,
	}
}

// Credentials returns the configured key triple.
func (c *Client) Credentials() models.Credentials { return c.cfg.Credentials }

// SignFills builds the endpoint and headers for q at the given instant.
func (c *Client) SignFills(q models.FillsQuery, now time.Time) SignedRequest {
	ts := now.UnixMilli()
	startAt, endAt := Window(ts, q.Days)
	endpoint := FillsEndpoint(q.Symbol, startAt, endAt, c.cfg.Limit, c.cfg.EncodeSymbol)
	return SignedRequest{
		Endpoint:  endpoint,
		Timestamp: ts,
		Headers:   c.signer.Headers(strconv.FormatInt(ts, 10), apphttp.MethodGet, endpoint),
	}
}

// GetFills performs a single signed GET. A non-2xx reply with a JSON body is
// returned as a response, not an error.
func (c *Client) GetFills(ctx context.Context, q models.FillsQuery) (*models.UpstreamResponse, error) {
	if q.Days < 1 {
		return nil, fmt.Errorf("days must be >= 1, got %d", q.Days)
	}

	req := c.SignFills(q, c.now())
	resp, err := c.http.Fetch(ctx, &apphttp.RequestOptions{
		Method:  apphttp.MethodGet,
		URL:     c.cfg.BaseURL + req.Endpoint,
		Headers: req.Headers,
	})
	if err != nil {
		if isTimeout(err) {
			return nil, newError(KindTimeout, err)
		}
		return nil, newError(KindTransport, err)
	}

	c.logger.Debug("kucoin fills response",
		applogger.String("symbol", q.Symbol),
		applogger.Int("status", resp.StatusCode),
		applogger.Int("bytes", len(resp.Body)),
	)

	if !gjson.ValidBytes(resp.Body) {
		return nil, newError(KindMalformed, fmt.Errorf("status %d: response is not JSON", resp.StatusCode))
	}

	return &models.UpstreamResponse{Status: resp.StatusCode, Body: resp.Body}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
