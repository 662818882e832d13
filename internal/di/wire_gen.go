// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"SentiPull/pkg/config"
	"SentiPull/pkg/server"
)

// Injectors from wire.go:

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}
	newsSource := ProvideNewsSource(cfg, logger)
	marketSource := ProvideMarketSource(cfg, logger)
	liveCollector := ProvideCollector(cfg, logger)
	classifier, err := ProvideClassifier(cfg, logger)
	if err != nil {
		return nil, err
	}
	symbolMatcher := ProvideMatcher(cfg)
	resultStore, err := ProvideResultStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	publisher, err := ProvidePublisher(cfg)
	if err != nil {
		return nil, err
	}
	metrics := ProvideMetrics()
	pipeline := ProvidePipeline(cfg, newsSource, marketSource, liveCollector, classifier, symbolMatcher, resultStore, publisher, metrics, logger)
	app := ProvideApp(cfg, pipeline, resultStore, publisher, logger)
	return app, nil
}
