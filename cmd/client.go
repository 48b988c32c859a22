package cmd

import (
	"fmt"
	"time"

	"github.com/sorane/t3c/internal/t3"
	"github.com/sorane/t3c/internal/t3/config"
	"github.com/sorane/t3c/internal/t3/registry"
)

// newClient creates a chat client from the loaded configuration.
func newClient(cfg *config.Config) (*t3.Client, error) {
	client, err := t3.NewClient(cfg.Credentials())
	if err != nil {
		return nil, fmt.Errorf("missing credentials: %w\n\nSet T3C_COOKIES and T3C_SESSION_ID or run 't3c init'", err)
	}
	client.SetDebug(verbose)
	return client, nil
}

// newRegistry creates a model registry from the loaded configuration.
func newRegistry(cfg *config.Config) *registry.Registry {
	source := registry.NewWebAppSource(cfg.Credentials().Cookies)
	source.SetDebug(verbose)
	ttl := time.Duration(cfg.ModelCacheTTLMinutes) * time.Minute
	return registry.NewRegistry(source, ttl)
}
