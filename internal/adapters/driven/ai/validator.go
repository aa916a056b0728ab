package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/core/ports/driven"
	"github.com/custodia-labs/docrag/internal/logger"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// probeText is embedded once to confirm the provider returns vectors of
// the configured size.
const probeText = "docrag configuration probe"

// ConfigValidator checks embedding settings against the live provider.
type ConfigValidator struct {
	timeout time.Duration
}

// ValidatorOption configures a ConfigValidator.
type ValidatorOption func(*ConfigValidator)

// WithTimeout bounds the ping and probe together.
func WithTimeout(d time.Duration) ValidatorOption {
	return func(v *ConfigValidator) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// NewConfigValidator creates a validator with the default ping timeout.
func NewConfigValidator(opts ...ValidatorOption) *ConfigValidator {
	v := &ConfigValidator{timeout: pingTimeout}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateEmbedding builds the provider, pings it and embeds a probe.
// Unset settings are valid since the hashing provider needs nothing.
func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error {
	if settings == nil || settings.Provider == "" {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%s unreachable: %w", settings.Provider, err)
	}

	vec, err := svc.Embed(ctx, probeText)
	if err != nil {
		return fmt.Errorf("%s probe: %w", settings.Provider, err)
	}
	if want := svc.Dimensions(); want > 0 && len(vec) != want {
		return fmt.Errorf("%s model %q: %w", settings.Provider, svc.ModelName(),
			&domain.DimensionMismatchError{Expected: want, Got: len(vec)})
	}

	logger.Debug("ai: %s/%s returned %d dimensions", settings.Provider, svc.ModelName(), len(vec))
	return nil
}
