//go:build wireinject
// +build wireinject

package di

import (
	"SentiPull/pkg/config"
	"SentiPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// External sources and sinks
		ProvideNewsSource,
		ProvideMarketSource,
		ProvideCollector,
		ProvideClassifier,
		ProvideMatcher,
		ProvideResultStore,
		ProvidePublisher,

		// Use cases
		ProvidePipeline,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
