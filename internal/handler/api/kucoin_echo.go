package api

import (
	"errors"
	"net/http"

	models "KuRelay/internal/domain/models"
	"KuRelay/internal/service/kucoin"
	"KuRelay/internal/usecase"
	xhttp "KuRelay/pkg/http"
	xlogger "KuRelay/pkg/logger"

	"github.com/labstack/echo/v4"
)

// KuCoinEchoHandler serves the signed KuCoin relay routes.
type KuCoinEchoHandler struct {
	logger   *xlogger.Logger
	relay    *usecase.FillsRelay
	defaults models.FillsQuery
}

// NewKuCoinEchoHandler creates the handler. defaults fill symbol and days when
// the query omits them.
func NewKuCoinEchoHandler(logger *xlogger.Logger, relay *usecase.FillsRelay, defaults models.FillsQuery) *KuCoinEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &KuCoinEchoHandler{logger: logger, relay: relay, defaults: defaults}
}

func (h *KuCoinEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/kucoin")
	g.GET("/fills", h.Fills)
	g.GET("/trades", h.Trades)
}

func (h *KuCoinEchoHandler) readQuery(c echo.Context) (*models.FillsQuery, interface{}) {
	req := h.defaults
	if verr := xhttp.ReadAndValidateRequest(c, &req); verr != nil {
		return nil, verr
	}
	return &req, nil
}

// Fills relays the raw KuCoin fills response.
func (h *KuCoinEchoHandler) Fills(c echo.Context) error {
	req, verr := h.readQuery(c)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	body, err := h.relay.Fills(c.Request().Context(), *req)
	if err != nil {
		if errors.Is(err, usecase.ErrCredentialsMissing) {
			return xhttp.ErrorResponse(c, http.StatusOK, xhttp.ErrorBody{Error: err.Error()})
		}
		return xhttp.AppErrorResponse(c, upstreamAppError(err))
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.RawJSONResponse(c, http.StatusOK, body)
}

// Trades returns fills normalized to the dashboard trade shape.
func (h *KuCoinEchoHandler) Trades(c echo.Context) error {
	req, verr := h.readQuery(c)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	view, err := h.relay.Trades(c.Request().Context(), *req)
	if err != nil {
		var rej *usecase.UpstreamRejected
		if errors.As(err, &rej) {
			return xhttp.ErrorResponse(c, http.StatusBadRequest, xhttp.ErrorBody{Error: rej.Msg, Code: rej.Code})
		}
		if !errors.Is(err, usecase.ErrCredentialsMissing) {
			h.logger.Error("trades usecase error", xlogger.Error(err))
		}
		return xhttp.ErrorResponse(c, http.StatusInternalServerError, xhttp.ErrorBody{Error: err.Error()})
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(http.StatusOK, view)
}

func upstreamAppError(err error) error {
	var kerr *kucoin.Error
	if !errors.As(err, &kerr) {
		return err
	}
	switch kerr.Kind {
	case kucoin.KindTimeout:
		return xhttp.GatewayTimeoutError("KuCoin did not respond in time").WithError(err)
	case kucoin.KindMalformed:
		return xhttp.BadGatewayError("KuCoin returned a malformed response").WithError(err)
	default:
		return xhttp.BadGatewayError("KuCoin request failed").WithError(err)
	}
}
