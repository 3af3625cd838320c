package di

import (
	"context"
	"fmt"

	"KuRelay/internal/domain/models"
	"KuRelay/internal/domain/repository"
	"KuRelay/internal/handler/api"
	"KuRelay/internal/service/kucoin"
	"KuRelay/internal/usecase"
	"KuRelay/pkg/config"
	xhttp "KuRelay/pkg/http"
	applogger "KuRelay/pkg/logger"
	"KuRelay/pkg/metrics"
	"KuRelay/pkg/queue"
	"KuRelay/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideLogPublisher connects the Redis error-log sink when the collector is
// enabled and attaches it to l. Returns nil when disabled.
func ProvideLogPublisher(cfg *config.Config, l *applogger.Logger) (*queue.RedisPublisher, error) {
	cc := cfg.Logging.Collector
	if !cc.Enabled {
		return nil, nil
	}

	client, err := queue.NewRedisClient(context.Background(), queue.RedisConfig{
		Addr:     cc.Redis.Addr,
		Password: cc.Redis.Password,
		DB:       cc.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("log collector redis: %w", err)
	}

	pub := queue.NewRedisPublisher(client, queue.WithKeyPrefix(cc.Redis.KeyPrefix))
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   cc.Interval,
		CountThreshold: cc.Threshold,
		Topic:          cc.Topic,
		Publisher:      pub,
	})
	l.Info("log collector enabled", applogger.String("redis", cc.Redis.Addr), applogger.String("topic", cc.Topic))
	return pub, nil
}

// ProvideMetrics creates a Prometheus metrics recorder, or nil when disabled.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.New()
}

// ProvideCredentials extracts the KuCoin key triple.
func ProvideCredentials(cfg *config.Config) models.Credentials {
	return models.Credentials{
		APIKey:        cfg.KuCoin.APIKey,
		APISecret:     cfg.KuCoin.APISecret,
		APIPassphrase: cfg.KuCoin.APIPassphrase,
	}
}

// ProvideKuCoinClient creates the signing REST client.
func ProvideKuCoinClient(cfg *config.Config, creds models.Credentials, l *applogger.Logger) *kucoin.Client {
	return kucoin.New(kucoin.Config{
		BaseURL:      cfg.KuCoin.BaseURL,
		Credentials:  creds,
		Limit:        cfg.KuCoin.Limit,
		EncodeSymbol: cfg.KuCoin.EncodeSymbol,
	}, xhttp.NewClient(xhttp.WithTimeout(cfg.KuCoin.Timeout)), l)
}

// ProvideFillsSource exposes the client as the domain port.
func ProvideFillsSource(c *kucoin.Client) repository.FillsSource {
	return c
}

// ProvideFillsRelay creates the relay use case.
func ProvideFillsRelay(creds models.Credentials, src repository.FillsSource, m repository.Metrics, l *applogger.Logger) *usecase.FillsRelay {
	return usecase.NewFillsRelay(creds, src, m, l)
}

// ProvideHandler creates the KuCoin route handler.
func ProvideHandler(cfg *config.Config, relay *usecase.FillsRelay, l *applogger.Logger) xhttp.Handler {
	return api.NewKuCoinEchoHandler(l, relay, models.FillsQuery{
		Symbol: cfg.KuCoin.DefaultSymbol,
		Days:   cfg.KuCoin.DefaultDays,
	})
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h, l,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithAllowOrigins(cfg.CORS.AllowedOrigins),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp creates the application server.
func ProvideApp(srv *xhttp.Server, l *applogger.Logger, pub *queue.RedisPublisher) *server.App {
	if pub == nil {
		return server.New(srv, l)
	}
	return server.New(srv, l, pub)
}
