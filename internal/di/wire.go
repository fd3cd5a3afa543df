//go:build wireinject
// +build wireinject

package di

import (
	"StockSense/pkg/config"
	"StockSense/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Provider client
		ProvideMarketData,

		// Analysis pipeline
		ProvideExtractor,
		ProvideEngine,
		ProvideResolver,

		// Use cases
		ProvideAnalyzer,

		// HTTP surface
		ProvideVerdictCache,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
