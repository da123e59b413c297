package indicator

import (
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// Factory builds a fresh indicator instance from its configuration.
type Factory func(cfg types.IndicatorConfig) (Indicator, error)

// IndicatorRegistry maps indicator types to factories.
type IndicatorRegistry interface {
	RegisterIndicator(name types.IndicatorType, factory Factory) error
	GetFactory(name types.IndicatorType) (Factory, error)
	ListIndicators() []types.IndicatorType
	RemoveIndicator(name types.IndicatorType) error
	// Build validates cfg and returns a new instance. Instances are never shared.
	Build(cfg types.IndicatorConfig) (Indicator, error)
}

// IndicatorRegistryV1 is the default thread-safe registry.
type IndicatorRegistryV1 struct {
	factories map[types.IndicatorType]Factory
	mu        sync.RWMutex
}

// NewIndicatorRegistry creates a registry with the built-in indicators registered.
func NewIndicatorRegistry() IndicatorRegistry {
	r := NewEmptyIndicatorRegistry()

	_ = r.RegisterIndicator(types.IndicatorTypeSMA, newSMAFromConfig)
	_ = r.RegisterIndicator(types.IndicatorTypeEMA, newEMAFromConfig)
	_ = r.RegisterIndicator(types.IndicatorTypeBollingerBands, newBollingerFromConfig)
	_ = r.RegisterIndicator(types.IndicatorTypeRSI, newRSIFromConfig)
	_ = r.RegisterIndicator(types.IndicatorTypeMACD, newMACDFromConfig)

	return r
}

// NewEmptyIndicatorRegistry creates a registry with nothing registered.
func NewEmptyIndicatorRegistry() IndicatorRegistry {
	return &IndicatorRegistryV1{
		factories: make(map[types.IndicatorType]Factory),
		mu:        sync.RWMutex{},
	}
}

// RegisterIndicator adds a factory to the registry.
func (r *IndicatorRegistryV1) RegisterIndicator(name types.IndicatorType, factory Factory) error {
	if factory == nil {
		return errors.Newf(errors.ErrCodeInvalidParameter, "factory for %s is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "indicator with name %s already registered", name)
	}

	r.factories[name] = factory

	return nil
}

// GetFactory retrieves a factory by name.
func (r *IndicatorRegistryV1) GetFactory(name types.IndicatorType) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeUnknownIndicator, "indicator with name %s not found", name)
	}

	return factory, nil
}

// ListIndicators returns the registered names in sorted order.
func (r *IndicatorRegistryV1) ListIndicators() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.IndicatorType, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}

// RemoveIndicator removes a factory from the registry.
func (r *IndicatorRegistryV1) RemoveIndicator(name types.IndicatorType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return errors.Newf(errors.ErrCodeUnknownIndicator, "indicator with name %s not found", name)
	}

	delete(r.factories, name)

	return nil
}

func (r *IndicatorRegistryV1) Build(cfg types.IndicatorConfig) (Indicator, error) {
	factory, err := r.GetFactory(cfg.Type)
	if err != nil {
		return nil, err
	}

	ind, err := factory(cfg)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to build %s", cfg.Label())
	}

	return ind, nil
}

func newSMAFromConfig(cfg types.IndicatorConfig) (Indicator, error) {
	sma, err := NewSMA(cfg.Period)
	if err != nil {
		return nil, err
	}

	return sma, nil
}

func newEMAFromConfig(cfg types.IndicatorConfig) (Indicator, error) {
	ema, err := NewEMAWithSeed(cfg.Period, cfg.Seed)
	if err != nil {
		return nil, err
	}

	return ema, nil
}

func newBollingerFromConfig(cfg types.IndicatorConfig) (Indicator, error) {
	bb, err := NewBollingerBands(cfg.Period, cfg.Multiplier)
	if err != nil {
		return nil, err
	}

	return bb, nil
}

func newRSIFromConfig(cfg types.IndicatorConfig) (Indicator, error) {
	rsi, err := NewRSI(cfg.Period)
	if err != nil {
		return nil, err
	}

	return rsi, nil
}

func newMACDFromConfig(cfg types.IndicatorConfig) (Indicator, error) {
	macd, err := NewMACDWithSeed(cfg.FastPeriod, cfg.SlowPeriod, cfg.SignalPeriod, cfg.Seed)
	if err != nil {
		return nil, err
	}

	return macd, nil
}
