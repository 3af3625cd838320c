package kucoin

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
)

const (
	HeaderKey        = "KC-API-KEY"
	HeaderSign       = "KC-API-SIGN"
	HeaderPassphrase = "KC-API-PASSPHRASE"
	HeaderTimestamp  = "KC-API-TIMESTAMP"
	HeaderKeyVersion = "KC-API-KEY-VERSION"

	// KeyVersion 2 sends the passphrase HMAC-signed instead of in plaintext.
	KeyVersion = "2"

	dayMillis = int64(86_400_000)
)

// Signer produces KuCoin v2 request signatures.
type Signer struct {
	key        string
	secret     []byte
	passphrase string
}

func NewSigner(key, secret, passphrase string) *Signer {
	return &Signer{key: key, secret: []byte(secret), passphrase: passphrase}
}

// Sign returns base64(HMAC-SHA256(secret, ts+method+endpoint)).
func (s *Signer) Sign(ts, method, endpoint string) string {
	return s.mac(ts + method + endpoint)
}

// SignPassphrase returns base64(HMAC-SHA256(secret, passphrase)).
func (s *Signer) SignPassphrase() string {
	return s.mac(s.passphrase)
}

// Headers builds the full KC-API-* header set for one request.
func (s *Signer) Headers(ts, method, endpoint string) map[string]string {
	return map[string]string{
		HeaderKey:        s.key,
		HeaderSign:       s.Sign(ts, method, endpoint),
		HeaderPassphrase: s.SignPassphrase(),
		HeaderTimestamp:  ts,
		HeaderKeyVersion: KeyVersion,
		"Content-Type":   "application/json",
	}
}

func (s *Signer) mac(payload string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// Window returns [nowMs - days*24h, nowMs] in epoch milliseconds.
func Window(nowMs int64, days int) (startAt, endAt int64) {
	return nowMs - int64(days)*dayMillis, nowMs
}

// FillsEndpoint renders the path+query that is both signed and requested.
// Parameter order is fixed.
func FillsEndpoint(symbol string, startAt, endAt int64, limit int, encode bool) string {
	if encode {
		symbol = url.QueryEscape(symbol)
	}
	return fmt.Sprintf("/api/v1/hf/fills?symbol=%s&startAt=%s&endAt=%s&limit=%d",
		symbol, strconv.FormatInt(startAt, 10), strconv.FormatInt(endAt, 10), limit)
}
