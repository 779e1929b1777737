package settings

import (
	"context"
	"log/slog"

	"github.com/dukerupert/taxbridge/internal/crypto"
	"github.com/dukerupert/taxbridge/internal/domain"
)

// Metadata field keys as stored per channel in the platform's app
// metadata.
const (
	fieldAPIKey          = "apiKey"
	fieldActive          = "active"
	fieldSandbox         = "sandbox"
	fieldShipFromCountry = "shipFromCountry"
	fieldShipFromZip     = "shipFromZip"
	fieldShipFromState   = "shipFromState"
	fieldShipFromCity    = "shipFromCity"
	fieldShipFromStreet  = "shipFromStreet"
)

// Field is one stored configuration value. Sensitive fields (the API
// key) are encrypted at rest and flagged accordingly.
type Field struct {
	Encrypted bool   `json:"encrypted"`
	Value     string `json:"value"`
}

// Fetcher retrieves raw per-channel configuration fields from the
// platform's metadata store. The GraphQL transport behind it is an
// external collaborator.
type Fetcher interface {
	FetchChannelSettings(ctx context.Context, saleorDomain string, channels []string) (map[string]map[string]Field, error)
}

// MetadataStore resolves channel configuration from platform metadata,
// decrypting encrypted values with the app's encryption key.
type MetadataStore struct {
	fetcher   Fetcher
	encryptor crypto.Encryptor
	logger    *slog.Logger
}

// NewMetadataStore creates a metadata-backed settings store.
func NewMetadataStore(fetcher Fetcher, encryptor crypto.Encryptor, logger *slog.Logger) *MetadataStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetadataStore{
		fetcher:   fetcher,
		encryptor: encryptor,
		logger:    logger,
	}
}

// ChannelConfig fetches and decrypts the configuration for one channel.
// A channel with no stored settings resolves to an inactive zero
// configuration, which Validate then rejects.
func (s *MetadataStore) ChannelConfig(ctx context.Context, saleorDomain, channelSlug string) (*ChannelConfig, error) {
	all, err := s.fetcher.FetchChannelSettings(ctx, saleorDomain, []string{channelSlug})
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "settings.lookup", "failed to fetch channel settings")
	}

	fields, ok := all[channelSlug]
	if !ok {
		s.logger.Warn("no settings stored for channel",
			"saleor_domain", saleorDomain,
			"channel", channelSlug,
		)
		return &ChannelConfig{}, nil
	}

	apiKey, err := s.fieldValue(fields, fieldAPIKey)
	if err != nil {
		return nil, err
	}

	cfg := &ChannelConfig{
		APIKey:  apiKey,
		Active:  fields[fieldActive].Value == "true",
		Sandbox: fields[fieldSandbox].Value == "true",
		ShipFrom: ShipFrom{
			Country: fields[fieldShipFromCountry].Value,
			Zip:     fields[fieldShipFromZip].Value,
			State:   fields[fieldShipFromState].Value,
			City:    fields[fieldShipFromCity].Value,
			Street:  fields[fieldShipFromStreet].Value,
		},
	}

	s.logger.Debug("resolved channel settings",
		"saleor_domain", saleorDomain,
		"channel", channelSlug,
		"active", cfg.Active,
		"sandbox", cfg.Sandbox,
		"api_key", Obfuscate(cfg.APIKey),
	)
	return cfg, nil
}

func (s *MetadataStore) fieldValue(fields map[string]Field, key string) (string, error) {
	field := fields[key]
	if !field.Encrypted {
		return field.Value, nil
	}
	plaintext, err := s.encryptor.Decrypt([]byte(field.Value))
	if err != nil {
		s.logger.Error("failed to decrypt settings field", "field", key, "error", err)
		return "", ErrDecryptFailed
	}
	return string(plaintext), nil
}
