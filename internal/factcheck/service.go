package factcheck

import (
	"context"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// Service is one external verification backend. Search returns every rating
// the service has for the claim; an empty slice means the service has no
// opinion, which is not an error.
type Service interface {
	// Name identifies the service in logs and failure counts.
	Name() string
	// Specialized services outrank the free aggregator during
	// reconciliation.
	Specialized() bool
	Search(ctx context.Context, claim model.Claim) ([]model.ServiceRating, error)
}
