package identity

import "context"

type Repository interface {
	Create(ctx context.Context, i *Identity) error
	// GetByIdentityID loads the identity with documents and compliance
	// records ordered by submission sequence.
	GetByIdentityID(ctx context.Context, identityID string) (*Identity, error)
	GetByEmail(ctx context.Context, email string) (*Identity, error)
	Save(ctx context.Context, i *Identity) error
	AddDocument(ctx context.Context, d *KYCDocument) error
	SaveDocument(ctx context.Context, d *KYCDocument) error
	AddCompliance(ctx context.Context, c *ComplianceRecord) error
}
