package credit

import "context"

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByIdentityID(ctx context.Context, identityID string) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
}
