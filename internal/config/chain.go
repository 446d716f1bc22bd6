package config

import (
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// ChainConfig holds everything needed to talk to the program gateway:
// where it lives, which program to expect settlements from, and the
// pricing parameters mirroring the program's own fee schedule.
type ChainConfig struct {
	GatewayUrl     string `mapstructure:"gateway-url"`
	ProgramAddress string `mapstructure:"program-address"`
	TimeoutMs      int    `mapstructure:"timeout-ms"`
	// RateScale is the fixed-point scale of the exchange rate reported in
	// the pool snapshot (1e6 for a 6-decimal redeemable token).
	RateScale uint64 `mapstructure:"rate-scale"`
	// TokenUnit converts smallest token/reserve units into display units.
	TokenUnit uint64 `mapstructure:"token-unit"`
	// ExitFeeBps is the program's withdrawal fee in basis points.
	ExitFeeBps uint64 `mapstructure:"exit-fee-bps"`
	// UnitPrice is the assumed reserve price of one redeemable token when
	// quoting a queued withdrawal before settlement.
	UnitPrice string `mapstructure:"unit-price"`

	unitPrice decimal.Decimal
}

func (cfg *ChainConfig) Validate() error {
	if cfg.GatewayUrl == "" {
		return fmt.Errorf("missing chain gateway url")
	}

	u, err := url.Parse(cfg.GatewayUrl)
	if err != nil {
		return fmt.Errorf("invalid chain gateway url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported chain gateway scheme: %s", u.Scheme)
	}

	if cfg.ProgramAddress == "" {
		return fmt.Errorf("missing program address")
	}

	if cfg.TimeoutMs <= 0 {
		return fmt.Errorf("chain gateway timeout must be a positive integer")
	}

	if cfg.RateScale == 0 {
		return fmt.Errorf("rate scale must be a positive integer")
	}

	if cfg.TokenUnit == 0 {
		return fmt.Errorf("token unit must be a positive integer")
	}

	if cfg.ExitFeeBps >= 10000 {
		return fmt.Errorf("exit fee must be below 10000 basis points")
	}

	price, err := decimal.NewFromString(cfg.UnitPrice)
	if err != nil {
		return fmt.Errorf("invalid unit price: %w", err)
	}
	if price.IsNegative() || price.IsZero() {
		return fmt.Errorf("unit price must be positive")
	}
	cfg.unitPrice = price

	return nil
}

func (cfg *ChainConfig) GetUnitPrice() decimal.Decimal {
	return cfg.unitPrice
}
