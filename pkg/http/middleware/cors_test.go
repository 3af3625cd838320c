package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestAllowedOrigin(t *testing.T) {
	list := []string{"https://a.example", "https://b.example"}
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"listed", list, "https://b.example", "https://b.example"},
		{"foreign", list, "https://evil.example", "https://a.example"},
		{"no origin", list, "", "https://a.example"},
		{"empty list", nil, "https://x.example", "*"},
		{"wildcard", []string{"*"}, "https://x.example", "*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, allowedOrigin(tt.allowed, tt.origin))
		})
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	e := echo.New()
	mw := CORS(CORSConfig{
		AllowOrigins: []string{"https://a.example"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	})
	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodOptions, "/kucoin/fills", nil)
	req.Header.Set(echo.HeaderOrigin, "https://a.example")
	rec := httptest.NewRecorder()
	assert.NoError(t, h(e.NewContext(req, rec)))

	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://a.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", StatusClass(http.StatusOK))
	assert.Equal(t, "5xx", StatusClass(http.StatusGatewayTimeout))
}
