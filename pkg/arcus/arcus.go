// ============================================================================
// arcus - Command catalog client for CloudStack-style APIs
// ============================================================================
//
// Package:     arcus
// Description: Programmatic entry point: configuration to ready client
// Created:     2026-10-18
// License:     MIT
// ============================================================================

// Package arcus wires the catalog, registry, executor and poller together.
//
//	cfg, _ := config.LoadFromEnv()
//	c, err := arcus.Configure(cfg, nil)
//	res, err := c.Call(ctx, "VirtualMachine", "list", map[string]string{"zoneid": "1"})
package arcus

import (
	"context"
	"sync"
	"time"

	"github.com/atistler/arcus/internal/catalog"
	"github.com/atistler/arcus/internal/client"
	"github.com/atistler/arcus/internal/poller"
	"github.com/atistler/arcus/internal/registry"
	"github.com/atistler/arcus/pkg/core/config"
	"github.com/atistler/arcus/pkg/core/logging"
)

var (
	cachesMu sync.Mutex
	caches   = make(map[string]*catalog.Cache)
)

// Client is a configured API client
type Client struct {
	config   *config.Config
	catalog  *catalog.Catalog
	registry *registry.Registry
	exec     *client.Client
	poller   *poller.Poller
	format   client.Format
	logger   *logging.Logger
}

// Configure validates cfg, loads the catalog (through the sidecar cache
// unless disabled) and builds the registry. Any failure here is a
// configuration error.
func Configure(cfg *config.Config, logger *logging.Logger) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}

	format, err := client.ParseFormat(cfg.API.DefaultResponse)
	if err != nil {
		return nil, err
	}

	cat, err := LoadCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}

	reg, err := registry.Build(cat.Commands, cfg.API.URI)
	if err != nil {
		return nil, err
	}

	exec := client.New(client.Config{
		ConnectTimeout: cfg.HTTP.ConnectTimeout.Duration,
		ReadTimeout:    cfg.HTTP.ReadTimeout.Duration,
		RateLimit:      cfg.HTTP.RateLimit,
		RateBurst:      cfg.HTTP.RateBurst,
		Verbose:        cfg.API.Verbose,
		UserAgent:      cfg.HTTP.UserAgent,
	}, logger)

	logger.Debug("Client configured",
		"catalog", cat.Source,
		"fromCache", cat.FromCache,
		"targets", len(reg.Targets()),
		"actions", reg.Len(),
		"endpoint", cfg.API.URI)

	return &Client{
		config:   cfg,
		catalog:  cat,
		registry: reg,
		exec:     exec,
		poller:   poller.New(exec, logger),
		format:   format,
		logger:   logger,
	}, nil
}

// LoadCatalog reads the configured catalog, through the cache unless
// catalog.disable_cache is set
func LoadCatalog(cfg *config.Config, logger *logging.Logger) (*catalog.Catalog, error) {
	if cfg.Catalog.DisableCache {
		return catalog.Load(cfg.Catalog.Path)
	}
	return CatalogCache(cfg, logger).Load(cfg.Catalog.Path)
}

// CatalogCache returns the process-wide catalog cache for cfg's cache
// directory. Every client configured for that directory shares it.
func CatalogCache(cfg *config.Config, logger *logging.Logger) *catalog.Cache {
	cachesMu.Lock()
	defer cachesMu.Unlock()

	if c, ok := caches[cfg.Catalog.CacheDir]; ok {
		return c
	}
	c := catalog.NewCache(cfg.Catalog.CacheDir, logger)
	caches[cfg.Catalog.CacheDir] = c
	return c
}

// Config returns the configuration the client was built from
func (c *Client) Config() *config.Config {
	return c.config
}

// Catalog returns the loaded catalog
func (c *Client) Catalog() *catalog.Catalog {
	return c.catalog
}

// Registry returns the target/action tree
func (c *Client) Registry() *registry.Registry {
	return c.registry
}

// Executor returns the underlying request executor
func (c *Client) Executor() *client.Client {
	return c.exec
}

// Poller returns the async job poller
func (c *Client) Poller() *poller.Poller {
	return c.poller
}

// DefaultFormat returns the configured default response format
func (c *Client) DefaultFormat() client.Format {
	return c.format
}

// Targets returns all targets in catalog order
func (c *Client) Targets() []*registry.Target {
	return c.registry.Targets()
}

// Action looks up an action by target and verb
func (c *Client) Action(target, action string) (*registry.Action, error) {
	return c.registry.Action(target, action)
}

// Call validates params and executes one action. The response parameter
// selects the format, falling back to the configured default.
func (c *Client) Call(ctx context.Context, target, action string, params map[string]string) (*client.Result, error) {
	return c.CallWithCallbacks(ctx, target, action, params, client.Callbacks{})
}

// CallWithCallbacks is Call with success and failure hooks on the raw
// response
func (c *Client) CallWithCallbacks(ctx context.Context, target, action string, params map[string]string, cb client.Callbacks) (*client.Result, error) {
	a, err := c.registry.Action(target, action)
	if err != nil {
		return nil, err
	}
	format, err := c.ResponseFormat(params)
	if err != nil {
		return nil, err
	}
	return c.exec.ExecuteAction(ctx, a, params, format, cb)
}

// CallAndWait executes an async action and polls every interval until its
// job completes, returning the job result.
func (c *Client) CallAndWait(ctx context.Context, target, action string, params map[string]string, interval time.Duration) (*client.Result, error) {
	return c.CallAndWatch(ctx, target, action, params, interval, nil)
}

// CallAndWatch is CallAndWait reporting every status query to obs, which may
// be nil
func (c *Client) CallAndWatch(ctx context.Context, target, action string, params map[string]string, interval time.Duration, obs poller.Observer) (*client.Result, error) {
	a, err := c.registry.Action(target, action)
	if err != nil {
		return nil, err
	}
	format, err := c.ResponseFormat(params)
	if err != nil {
		return nil, err
	}
	return c.poller.WithObserver(obs).Run(ctx, a, params, format, interval)
}

// ResponseFormat returns the format named by the response parameter or the
// configured default
func (c *Client) ResponseFormat(params map[string]string) (client.Format, error) {
	if name := params["response"]; name != "" {
		return client.ParseFormat(name)
	}
	return c.format, nil
}
