package cli

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/aretw0/voyant"
	"github.com/aretw0/voyant/internal/config"
	"github.com/aretw0/voyant/pkg/adapters/file"
	"github.com/aretw0/voyant/pkg/adapters/gemini"
	"github.com/aretw0/voyant/pkg/adapters/memory"
	"github.com/aretw0/voyant/pkg/adapters/redis"
	"github.com/aretw0/voyant/pkg/adapters/serpapi"
	"github.com/aretw0/voyant/pkg/dispatch"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/persistence/middleware"
	"github.com/aretw0/voyant/pkg/ports"
	"github.com/aretw0/voyant/pkg/profile"
)

// BuildAgent assembles a fully wired agent from configuration: the Gemini
// oracle over the tool catalog, the SerpApi searchers, the configured thread
// store, and the steering profile.
func BuildAgent(ctx context.Context, cfg config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*voyant.Agent, error) {
	if cfg.SerpAPIKey == "" {
		return nil, fmt.Errorf("SERPAPI_API_KEY is not set")
	}
	if cfg.GoogleAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY is not set")
	}

	oracleOpts := []gemini.Option{gemini.WithLogger(logger)}
	if cfg.Model != "" {
		oracleOpts = append(oracleOpts, gemini.WithModel(cfg.Model))
	}
	oracle, err := gemini.New(ctx, cfg.GoogleAPIKey, dispatch.Catalog(), oracleOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing oracle: %w", err)
	}

	searcher := newSearchClient(cfg, logger)

	opts := []voyant.Option{
		voyant.WithFlightSearcher(searcher),
		voyant.WithHotelSearcher(searcher),
		voyant.WithLogger(logger),
		voyant.WithMaxRounds(cfg.MaxRounds),
		voyant.WithParallelTools(cfg.ParallelTools),
		voyant.WithLifecycleHooks(hooks),
	}

	if cfg.ProfilePath != "" {
		p, err := profile.Load(ctx, cfg.ProfilePath)
		if err != nil {
			return nil, fmt.Errorf("error loading profile %s: %w", cfg.ProfilePath, err)
		}
		opts = append(opts, voyant.WithSystemInstruction(p.Instruction))
	}

	storeOpts, err := storeOptions(cfg)
	if err != nil {
		return nil, err
	}
	opts = append(opts, storeOpts...)

	return voyant.New(oracle, opts...)
}

// BuildDispatcher wires the SerpApi searchers behind the standard tool
// dispatcher without requiring an oracle. The MCP server runs on this.
func BuildDispatcher(cfg config.Config, logger *slog.Logger) (ports.ToolDispatcher, error) {
	if cfg.SerpAPIKey == "" {
		return nil, fmt.Errorf("SERPAPI_API_KEY is not set")
	}
	searcher := newSearchClient(cfg, logger)
	return dispatch.New(searcher, searcher, dispatch.WithLogger(logger)), nil
}

func newSearchClient(cfg config.Config, logger *slog.Logger) *serpapi.Client {
	return serpapi.New(cfg.SerpAPIKey,
		serpapi.WithLocale(cfg.Search.HL, cfg.Search.GL, cfg.Search.Currency),
		serpapi.WithOverrides(cfg.Search.Overrides()),
		serpapi.WithLogger(logger),
	)
}

// BuildStore opens the configured history store directly. The threads
// command uses this to inspect saved conversations without an agent.
// A memory store opened by a fresh process is necessarily empty.
func BuildStore(cfg config.Config) (ports.HistoryStore, error) {
	var store ports.HistoryStore
	switch cfg.Store.Backend {
	case "", "memory":
		store = memory.New()
	case "file":
		store = file.New(cfg.Store.FileDir)
	case "redis":
		store = redis.New(cfg.Store.RedisAddr, "", 0)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
	return wrapStore(cfg, store)
}

// storeOptions selects the history store backend. Memory is the default;
// Redis adds cross-replica persistence plus a distributed lock per thread.
func storeOptions(cfg config.Config) ([]voyant.Option, error) {
	var opts []voyant.Option
	var store ports.HistoryStore

	switch cfg.Store.Backend {
	case "", "memory":
		// The facade defaults to a memory store on its own; only a wrapping
		// middleware forces explicit construction here.
		if cfg.StoreKey == "" && len(cfg.Store.MaskPatterns) == 0 {
			return nil, nil
		}
		store = memory.New()
	case "file":
		store = file.New(cfg.Store.FileDir)
	case "redis":
		rs := redis.New(cfg.Store.RedisAddr, "", 0)
		opts = append(opts, voyant.WithDistributedLocker(redis.NewLocker(rs.Client(), "voyant:")))
		if cfg.Store.LockTTLSeconds > 0 {
			opts = append(opts, voyant.WithLockTTL(time.Duration(cfg.Store.LockTTLSeconds)*time.Second))
		}
		store = rs
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}

	store, err := wrapStore(cfg, store)
	if err != nil {
		return nil, err
	}
	return append(opts, voyant.WithHistoryStore(store)), nil
}

// wrapStore layers at-rest encryption and PII masking over the store.
// Encryption wraps first so the mask patterns run against plaintext.
func wrapStore(cfg config.Config, store ports.HistoryStore) (ports.HistoryStore, error) {
	if cfg.StoreKey != "" {
		key, err := middleware.ParseKey(cfg.StoreKey)
		if err != nil {
			return nil, fmt.Errorf("invalid VOYANT_STORE_KEY: %w", err)
		}
		mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		store = mw(store)
	}
	if len(cfg.Store.MaskPatterns) > 0 {
		for _, p := range cfg.Store.MaskPatterns {
			if _, err := regexp.Compile(p); err != nil {
				return nil, fmt.Errorf("invalid mask pattern %q: %w", p, err)
			}
		}
		store = middleware.NewPIIMiddleware(cfg.Store.MaskPatterns)(store)
	}
	return store, nil
}
