package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/kitchen"
	"github.com/aretw0/kitchen/internal/config"
	"github.com/aretw0/kitchen/pkg/adapters/memory"
	kredis "github.com/aretw0/kitchen/pkg/adapters/redis"
	"github.com/aretw0/kitchen/pkg/adapters/shadow"
	"github.com/aretw0/kitchen/pkg/catalog"
	"github.com/aretw0/kitchen/pkg/domain"
	"github.com/aretw0/kitchen/pkg/observability"
	"github.com/aretw0/kitchen/pkg/persistence/middleware"
	"github.com/aretw0/kitchen/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	backend "github.com/redis/go-redis/v9"
)

// Thermometer is implemented by simulated shadows whose probe can be moved by hand.
type Thermometer interface {
	SetTemperature(ctx context.Context, deviceID string, celsius float64) error
}

// Runtime is a fully wired engine plus the collaborators the admin commands need.
type Runtime struct {
	Config   *config.Config
	Engine   *kitchen.Engine
	Catalog  *catalog.Catalog
	Store    ports.SessionStore
	Registry ports.DeviceRegistry
	Shadow   ports.DeviceShadow
	Metrics  *prometheus.Registry

	client *backend.Client
}

// Thermometer returns the shadow as a Thermometer when it is simulated.
func (rt *Runtime) Thermometer() (Thermometer, bool) {
	t, ok := rt.Shadow.(Thermometer)
	return t, ok
}

// MetricsHandler serves the runtime's Prometheus registry.
func (rt *Runtime) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(rt.Metrics, promhttp.HandlerOpts{Registry: rt.Metrics})
}

// Close releases the Redis connection, if any.
func (rt *Runtime) Close() error {
	if rt.client != nil {
		return rt.client.Close()
	}
	return nil
}

// LoadCatalog returns the configured catalog or the built-in one.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

// Build wires every collaborator named by cfg into an Engine.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	recipes, err := LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Config: cfg, Catalog: recipes, Metrics: prometheus.NewRegistry()}
	var engineOpts []kitchen.Option

	// 1. Sessions & Registry
	if cfg.Redis.URL != "" {
		opts, err := backend.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		rt.client = backend.NewClient(opts)
		if err := rt.client.Ping(ctx).Err(); err != nil {
			_ = rt.client.Close()
			return nil, fmt.Errorf("redis unreachable: %w", err)
		}

		rt.Store = kredis.NewFromClient(rt.client,
			kredis.WithPrefix(cfg.Redis.Prefix+"session:"),
			kredis.WithTTL(cfg.Redis.SessionTTL),
		)
		registry := kredis.NewRegistry(rt.client, cfg.Redis.Prefix)
		for user, device := range cfg.Devices {
			if err := registry.Register(ctx, user, device); err != nil {
				_ = rt.client.Close()
				return nil, fmt.Errorf("seed device for %s: %w", user, err)
			}
		}
		rt.Registry = registry
		engineOpts = append(engineOpts, kitchen.WithLocker(kredis.NewLocker(rt.client, cfg.Redis.Prefix)))
		logger.Info("Using Redis persistence", "prefix", cfg.Redis.Prefix)
	} else {
		rt.Store = memory.NewStore(memory.WithTTL(cfg.Redis.SessionTTL))
		rt.Registry = memory.NewRegistry(cfg.Devices)
	}

	if cfg.SessionKey != "" {
		keys, err := cfg.SessionKeys()
		if err != nil {
			return nil, err
		}
		seal, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: keys[0], FallbackKeys: keys[1:]})
		if err != nil {
			return nil, err
		}
		rt.Store = middleware.Chain(rt.Store, seal)
	}

	// 2. Device Shadow
	switch cfg.Shadow.Backend {
	case config.BackendRedis:
		rt.Shadow = kredis.NewShadow(rt.client, cfg.Redis.Prefix)
	case config.BackendHTTP:
		rt.Shadow = shadow.New(cfg.Shadow.Endpoint,
			shadow.WithHTTPClient(&http.Client{Timeout: cfg.Shadow.Timeout}),
			shadow.WithToken(cfg.Shadow.Token),
			shadow.WithLogger(logger),
		)
	default:
		mem := memory.NewShadow()
		for user, device := range cfg.Devices {
			if err := mem.Provision(ctx, device, &domain.ReportedState{Temperature: domain.Float(kitchen.SimulatedStartTemperature)}); err != nil {
				return nil, fmt.Errorf("seed device for %s: %w", user, err)
			}
		}
		rt.Shadow = mem
	}
	if sim, ok := rt.Shadow.(ports.DeviceSimulator); ok && cfg.Simulation {
		engineOpts = append(engineOpts, kitchen.WithSimulator(sim))
	}

	// 3. Observability
	rt.Metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(rt.Metrics)
	engineOpts = append(engineOpts,
		kitchen.WithLogger(logger),
		kitchen.WithLifecycleHooks(observability.Combine(metrics.Hooks(), observability.LoggingHooks(logger))),
	)

	// 4. Presentation
	if cfg.SkillName != "" {
		engineOpts = append(engineOpts, kitchen.WithSkillName(cfg.SkillName))
	}
	if cfg.ProjectURL != "" {
		engineOpts = append(engineOpts, kitchen.WithProjectURL(cfg.ProjectURL))
	}

	rt.Engine, err = kitchen.New(recipes, rt.Store, rt.Registry, rt.Shadow, engineOpts...)
	if err != nil {
		_ = rt.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return rt, nil
}
