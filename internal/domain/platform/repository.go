package platform

import "context"

type Repository interface {
	GetConfig(ctx context.Context) (*Config, error)
	// GetConfigForUpdate row-locks the singleton config row so concurrent
	// rate updates serialize.
	GetConfigForUpdate(ctx context.Context) (*Config, error)
	SaveConfig(ctx context.Context, c *Config) error
	GetStats(ctx context.Context) (*Stats, error)
	// IncLoansCreated bumps totalLoansCreated by 1 with a relative update.
	IncLoansCreated(ctx context.Context) error
	// AddActiveLoans adjusts totalActiveLoans by delta (may be negative)
	// with a relative update.
	AddActiveLoans(ctx context.Context, delta int64) error
}
