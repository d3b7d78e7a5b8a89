package role

import "context"

type Repository interface {
	Checker
	Grant(ctx context.Context, a *Assignment) error
	Revoke(ctx context.Context, identityID string, r Role) error
	ListByIdentityID(ctx context.Context, identityID string) ([]Assignment, error)
}
