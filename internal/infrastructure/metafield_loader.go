package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Victor-armando18/discount-function/internal/domain"
	"github.com/Victor-armando18/discount-function/internal/domain/model"
	"github.com/Victor-armando18/discount-function/internal/infrastructure/contract"
	"github.com/Victor-armando18/discount-function/internal/interfaces"
)

type MetafieldLoader struct{}

func NewMetafieldLoader() interfaces.ConfigurationLoader {
	return &MetafieldLoader{}
}

// Load validates the metafield value against the configuration schema and
// decodes it. Nothing is defaulted.
func (l *MetafieldLoader) Load(ctx context.Context, metafield *model.Metafield) (*domain.DiscountConfiguration, error) {
	if metafield == nil {
		return nil, domain.ErrConfigurationMissing
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := []byte(metafield.Value)
	if err := contract.Validate(contract.Configuration, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigurationMalformed, err)
	}

	var cfg domain.DiscountConfiguration
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigurationMalformed, err)
	}
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigurationMalformed, err)
	}
	return &cfg, nil
}
