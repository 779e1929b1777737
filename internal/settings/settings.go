// Package settings resolves per-channel TaxJar configuration. Values
// live in the commerce platform's metadata store, encrypted at rest;
// this package decrypts them and hands the core an already-resolved
// configuration so the calculation path has no ambient state.
package settings

import "context"

// ShipFrom is the configured origin address for a channel, used to
// determine the applicable tax jurisdiction.
type ShipFrom struct {
	Country string
	Zip     string
	State   string
	City    string
	Street  string
}

// ChannelConfig is the resolved configuration for one sales channel.
type ChannelConfig struct {
	APIKey   string
	Sandbox  bool
	Active   bool
	ShipFrom ShipFrom
}

// Validate reports whether this configuration may be used for provider
// calls. An inactive channel or a missing API key rejects the request
// before any provider call is made.
func (c *ChannelConfig) Validate() error {
	if c == nil || !c.Active {
		return ErrNotActive
	}
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Store resolves channel configuration, keyed by the platform domain
// and the channel slug.
type Store interface {
	ChannelConfig(ctx context.Context, saleorDomain, channelSlug string) (*ChannelConfig, error)
}

// StaticStore returns the same configuration for every domain and
// channel. Used for single-tenant deployments configured entirely from
// the environment.
type StaticStore struct {
	config ChannelConfig
}

// NewStaticStore creates a store that always resolves to cfg.
func NewStaticStore(cfg ChannelConfig) *StaticStore {
	return &StaticStore{config: cfg}
}

// ChannelConfig returns the static configuration.
func (s *StaticStore) ChannelConfig(ctx context.Context, saleorDomain, channelSlug string) (*ChannelConfig, error) {
	cfg := s.config
	return &cfg, nil
}
