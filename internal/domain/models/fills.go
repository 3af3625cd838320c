package models

import "github.com/tidwall/gjson"

// SuccessCode is the envelope code KuCoin returns on success.
const SuccessCode = "200000"

// Credentials are the KuCoin API key triple. Loaded once at startup and never
// written anywhere by this service.
type Credentials struct {
	APIKey        string
	APISecret     string
	APIPassphrase string
}

// Configured reports whether an API key is present. The fills route only
// checks the key; a missing secret or passphrase yields a request that
// KuCoin rejects.
func (c Credentials) Configured() bool { return c.APIKey != "" }

// Complete reports whether all three values are present.
func (c Credentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.APIPassphrase != ""
}

// FillsQuery is the inbound query for both relay routes.
type FillsQuery struct {
	Symbol string `query:"symbol" json:"symbol" default:"BTC-USDT"`
	Days   int    `query:"days" json:"days" default:"1" validate:"gte=1"`
}

// Trade is the dashboard-friendly view of one KuCoin fill.
type Trade struct {
	TradeTimestamp int64        `json:"trade_timestamp"` // ms
	Symbol         string       `json:"symbol"`
	TradeType      string       `json:"trade_type"` // BUY / SELL
	Price          string       `json:"price"`
	Quantity       string       `json:"quantity"`
	Market         string       `json:"market"`
	RawJSON        TradeRawJSON `json:"raw_json"`
}

type TradeRawJSON struct {
	TradeFee TradeFee `json:"trade_fee"`
}

type TradeFee struct {
	Percent float64 `json:"percent"`
}

// TradesView is the body of the normalized trades route.
type TradesView struct {
	Trades []Trade `json:"trades"`
	Total  int     `json:"total"`
}

// UpstreamResponse is a raw exchange response: status plus JSON body bytes.
type UpstreamResponse struct {
	Status int
	Body   []byte
}

// Envelope is the code/msg pair every KuCoin REST body carries.
type Envelope struct {
	Code string
	Msg  string
}

func (r *UpstreamResponse) Envelope() Envelope {
	res := gjson.GetManyBytes(r.Body, "code", "msg")
	return Envelope{Code: res[0].String(), Msg: res[1].String()}
}

// OK reports whether the body carries the success code.
func (r *UpstreamResponse) OK() bool {
	return r.Envelope().Code == SuccessCode
}
