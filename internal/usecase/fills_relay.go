package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"KuRelay/internal/domain/models"
	domrepo "KuRelay/internal/domain/repository"
	"KuRelay/internal/service/kucoin"
	applogger "KuRelay/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const (
	opFills  = "fills"
	opTrades = "trades"

	marketKuCoin = "kucoin"
)

var (
	ErrCredentialsMissing = errors.New("KuCoin credentials not configured")

	defaultFeeRate = decimal.NewFromFloat(0.001)
)

// UpstreamRejected is a well-formed KuCoin reply whose code is not success.
type UpstreamRejected struct {
	Code string
	Msg  string
}

func (e *UpstreamRejected) Error() string {
	return fmt.Sprintf("kucoin rejected request: code=%s msg=%s", e.Code, e.Msg)
}

// FillsRelay forwards fills queries and optionally normalizes the result.
type FillsRelay struct {
	creds   models.Credentials
	source  domrepo.FillsSource
	metrics domrepo.Metrics
	logger  *applogger.Logger
}

func NewFillsRelay(creds models.Credentials, source domrepo.FillsSource, m domrepo.Metrics, l *applogger.Logger) *FillsRelay {
	if l == nil {
		l = applogger.Nop()
	}
	return &FillsRelay{creds: creds, source: source, metrics: m, logger: l}
}

// Fills returns the upstream body unchanged, whatever its status.
func (r *FillsRelay) Fills(ctx context.Context, q models.FillsQuery) (json.RawMessage, error) {
	if !r.creds.Configured() {
		return nil, ErrCredentialsMissing
	}

	resp, err := r.fetch(ctx, opFills, q)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		env := resp.Envelope()
		r.logger.Warn("kucoin fills returned non-success envelope",
			applogger.String("symbol", q.Symbol),
			applogger.Int("status", resp.Status),
			applogger.String("code", env.Code),
			applogger.String("msg", env.Msg),
		)
	}
	return json.RawMessage(resp.Body), nil
}

// Trades fetches fills and maps them to the dashboard trade shape.
func (r *FillsRelay) Trades(ctx context.Context, q models.FillsQuery) (*models.TradesView, error) {
	if !r.creds.Complete() {
		return nil, ErrCredentialsMissing
	}

	resp, err := r.fetch(ctx, opTrades, q)
	if err != nil {
		return nil, err
	}

	env := resp.Envelope()
	if env.Code != models.SuccessCode {
		r.recordError(string(kucoin.KindUpstream))
		return nil, &UpstreamRejected{Code: env.Code, Msg: env.Msg}
	}

	items := gjson.GetBytes(resp.Body, "data.items").Array()
	trades := make([]models.Trade, 0, len(items))
	for _, it := range items {
		trades = append(trades, normalizeTrade(it))
	}

	return &models.TradesView{Trades: trades, Total: len(trades)}, nil
}

func (r *FillsRelay) fetch(ctx context.Context, op string, q models.FillsQuery) (*models.UpstreamResponse, error) {
	start := time.Now()
	resp, err := r.source.GetFills(ctx, q)
	r.recordLatency(op, time.Since(start))
	if err != nil {
		kind := "unknown"
		var kerr *kucoin.Error
		if errors.As(err, &kerr) {
			kind = string(kerr.Kind)
		}
		r.recordError(kind)
		r.logger.Error("kucoin request failed",
			applogger.String("operation", op),
			applogger.String("symbol", q.Symbol),
			applogger.String("kind", kind),
			applogger.Error(err),
		)
		return nil, err
	}
	r.recordUpstream(op, resp.Status)
	return resp, nil
}

func normalizeTrade(it gjson.Result) models.Trade {
	fee, err := decimal.NewFromString(it.Get("feeRate").String())
	if err != nil || fee.IsZero() {
		fee = defaultFeeRate
	}
	return models.Trade{
		// tradeTime is nanoseconds
		TradeTimestamp: it.Get("tradeTime").Int() / 1_000_000,
		Symbol:         it.Get("symbol").String(),
		TradeType:      strings.ToUpper(it.Get("side").String()),
		Price:          it.Get("price").String(),
		Quantity:       it.Get("size").String(),
		Market:         marketKuCoin,
		RawJSON:        models.TradeRawJSON{TradeFee: models.TradeFee{Percent: fee.InexactFloat64()}},
	}
}

func (r *FillsRelay) recordUpstream(op string, status int) {
	if r.metrics != nil {
		r.metrics.RecordUpstream(op, fmt.Sprintf("%dxx", status/100))
	}
}

func (r *FillsRelay) recordError(kind string) {
	if r.metrics != nil {
		r.metrics.RecordError(kind)
	}
}

func (r *FillsRelay) recordLatency(op string, d time.Duration) {
	if r.metrics != nil {
		r.metrics.RecordLatency(op, d.Seconds())
	}
}
