//go:build wireinject
// +build wireinject

package di

import (
	"KuRelay/pkg/config"
	"KuRelay/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Logging
		ProvideLogger,
		ProvideLogPublisher,

		// Metrics
		ProvideMetrics,

		// Exchange client
		ProvideCredentials,
		ProvideKuCoinClient,
		ProvideFillsSource,

		// Use cases
		ProvideFillsRelay,

		// HTTP
		ProvideHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
