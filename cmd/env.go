package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/linkmagico/chatbot/internal/chat"
	"github.com/linkmagico/chatbot/internal/config"
	"github.com/linkmagico/chatbot/internal/extract"
	"github.com/linkmagico/chatbot/internal/fetch"
	"github.com/linkmagico/chatbot/internal/genai"
	"github.com/linkmagico/chatbot/internal/model"
	"github.com/linkmagico/chatbot/internal/store"
	"github.com/linkmagico/chatbot/pkg/openrouter"
)

// extractorAPI is the extraction surface the commands and HTTP handlers use.
type extractorAPI interface {
	Extract(ctx context.Context, url string) (*model.ExtractedRecord, error)
}

// responderAPI is the chat surface the commands and HTTP handlers use.
type responderAPI interface {
	Respond(ctx context.Context, sessionID, message string, rec *model.ExtractedRecord, agentName, instructions string) (string, error)
}

// appEnv wires the core components from configuration.
type appEnv struct {
	cfg       *config.Config
	cache     store.Store
	extractor extractorAPI
	history   *chat.HistoryStore
	synth     responderAPI
}

func initEnv(cfg *config.Config) (*appEnv, error) {
	cache, err := newCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	fetcher := fetch.NewFetcher(
		fetch.WithTimeouts(
			time.Duration(cfg.Fetch.TimeoutSecs)*time.Second,
			time.Duration(cfg.Fetch.FallbackTimeoutSecs)*time.Second,
		),
		fetch.WithMaxRedirects(cfg.Fetch.MaxRedirects),
		fetch.WithRateLimit(rate.Limit(cfg.Fetch.RatePerSec), cfg.Fetch.Burst),
	)

	history := chat.NewHistoryStore(cfg.Chat.HistoryLimit)

	synthOpts := []chat.SynthOption{
		chat.WithGenerateTimeout(time.Duration(cfg.Chat.GenerateTimeoutSecs) * time.Second),
		chat.WithContextTurns(cfg.Chat.ContextTurns),
	}
	if gen := newGenerator(cfg); gen != nil {
		synthOpts = append(synthOpts, chat.WithGenerator(gen))
		zap.L().Info("generation backend configured", zap.String("provider", gen.Name()))
	} else {
		zap.L().Info("no generation backend configured, using template replies")
	}

	return &appEnv{
		cfg:       cfg,
		cache:     cache,
		extractor: extract.NewExtractor(fetcher, cache),
		history:   history,
		synth:     chat.NewSynthesizer(history, synthOpts...),
	}, nil
}

func (e *appEnv) Close() {
	if err := e.cache.Close(); err != nil {
		zap.L().Warn("close cache", zap.Error(err))
	}
}

func newCache(cfg config.CacheConfig) (store.Store, error) {
	ttl := time.Duration(cfg.TTLSecs) * time.Second
	switch cfg.Driver {
	case "", "memory":
		return store.NewMemory(ttl), nil
	case "sqlite":
		return store.NewSQLite(cfg.Path, ttl)
	default:
		return nil, eris.Errorf("unknown cache driver: %s", cfg.Driver)
	}
}

func newGenerator(cfg *config.Config) genai.Generator {
	switch cfg.Generation.Provider {
	case "openrouter":
		client := openrouter.NewClient(cfg.OpenRouter.Key,
			openrouter.WithBaseURL(cfg.OpenRouter.BaseURL),
			openrouter.WithModel(cfg.OpenRouter.Model),
			openrouter.WithAttribution(cfg.OpenRouter.Referer, cfg.OpenRouter.Title),
		)
		return genai.NewOpenRouter(client)
	case "anthropic":
		return genai.NewAnthropic(cfg.Anthropic.Key, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)
	default:
		return nil
	}
}
