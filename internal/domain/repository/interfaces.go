package repository

import (
	"context"

	"KuRelay/internal/domain/models"
)

// FillsSource fetches recent fills from the exchange.
type FillsSource interface {
	GetFills(ctx context.Context, q models.FillsQuery) (*models.UpstreamResponse, error)
}

type Metrics interface {
	RecordUpstream(op, statusClass string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
