package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ProductPricing is the server-side price for one purchasable program.
// Amounts are in minor units (paise for INR).
type ProductPricing struct {
	ProductID string `mapstructure:"productId"`
	Name      string `mapstructure:"name"`
	Amount    int64  `mapstructure:"amount"`
	Currency  string `mapstructure:"currency"`
}

// PlanPricing is the per-cycle charge of the recurring subscription
// plan. The provider is authoritative for billing; this is what gets
// recorded against verified subscription payments.
type PlanPricing struct {
	Amount   int64  `mapstructure:"amount"`
	Currency string `mapstructure:"currency"`
}

type PricingConfig struct {
	Products     []ProductPricing `mapstructure:"products"`
	Subscription PlanPricing      `mapstructure:"subscription"`
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		Products: []ProductPricing{
			{ProductID: "ylp", Name: "Youth Leadership Program", Amount: 250000, Currency: "INR"},
			{ProductID: "iyfa", Name: "India Young Filmmaker Awards", Amount: 250000, Currency: "INR"},
		},
		Subscription: PlanPricing{Amount: 250000, Currency: "INR"},
	}
}

// PricingHolder serves the current pricing config and hot-reloads it
// when the underlying file changes.
type PricingHolder struct {
	current atomic.Value // holds PricingConfig
}

func NewPricingHolder() (*PricingHolder, error) {
	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/indiamun")
	v.AddConfigPath(".")

	v.SetEnvPrefix("INDIAMUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPricingConfig()
		v.SetDefault("pricing.products", defaults.Products)
	}

	var cfg PricingConfig
	if err := v.UnmarshalKey("pricing", &cfg); err != nil {
		return nil, err
	}
	if err := validatePricingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PricingHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PricingConfig
		if err := v.UnmarshalKey("pricing", &updated); err != nil {
			log.Printf("[pricing-config] reload failed: %v", err)
			return
		}
		if err := validatePricingConfig(updated); err != nil {
			log.Printf("[pricing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[pricing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPricingHolder wraps a fixed config, used by tests.
func NewStaticPricingHolder(cfg PricingConfig) *PricingHolder {
	holder := &PricingHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PricingHolder) Get() PricingConfig {
	return h.current.Load().(PricingConfig)
}

// Product returns the pricing entry for a product id, if configured.
func (h *PricingHolder) Product(productID string) (ProductPricing, bool) {
	productID = strings.ToLower(strings.TrimSpace(productID))
	for _, p := range h.Get().Products {
		if strings.ToLower(p.ProductID) == productID {
			return p, true
		}
	}
	return ProductPricing{}, false
}

// SubscriptionPlan returns the configured recurring plan price, if any.
func (h *PricingHolder) SubscriptionPlan() (PlanPricing, bool) {
	plan := h.Get().Subscription
	if plan.Amount <= 0 || strings.TrimSpace(plan.Currency) == "" {
		return PlanPricing{}, false
	}
	return plan, true
}

func validatePricingConfig(cfg PricingConfig) error {
	if len(cfg.Products) == 0 {
		return errors.New("pricing.products cannot be empty")
	}
	for _, p := range cfg.Products {
		if strings.TrimSpace(p.ProductID) == "" {
			return errors.New("pricing.products entries require a productId")
		}
		if p.Amount <= 0 {
			return errors.New("pricing.products amounts must be positive")
		}
		if strings.TrimSpace(p.Currency) == "" {
			return errors.New("pricing.products entries require a currency")
		}
	}
	if cfg.Subscription.Amount < 0 {
		return errors.New("pricing.subscription amount must not be negative")
	}
	if cfg.Subscription.Amount > 0 && strings.TrimSpace(cfg.Subscription.Currency) == "" {
		return errors.New("pricing.subscription requires a currency")
	}
	return nil
}
