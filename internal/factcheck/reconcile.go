package factcheck

import (
	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// Reconcile folds every service opinion on a claim into one verdict. Pure:
// same opinions in, same verdict out. Precedence, highest first:
//
//  1. a rated opinion beats an unrated one
//  2. among rated opinions, a specialized service beats the aggregator
//  3. ties break on recency of review
//
// No opinions at all yields an unverified verdict.
func Reconcile(claim model.Claim, opinions []model.ServiceRating) model.ClaimVerdict {
	verdict := model.ClaimVerdict{
		Claim:    claim,
		Rating:   model.RatingUnverified,
		Opinions: len(opinions),
	}

	var best *model.ServiceRating
	for i := range opinions {
		op := &opinions[i]
		if best == nil || moreAuthoritative(op, best) {
			best = op
		}
	}
	if best == nil {
		return verdict
	}

	verdict.Rating = best.Rating
	verdict.Source = best.Source
	verdict.EvidenceURL = best.EvidenceURL
	verdict.Explanation = best.Explanation
	verdict.ReviewedAt = best.ReviewedAt
	return verdict
}

// moreAuthoritative reports whether a outranks b.
func moreAuthoritative(a, b *model.ServiceRating) bool {
	if a.Rating.Rated() != b.Rating.Rated() {
		return a.Rating.Rated()
	}
	if a.Specialized != b.Specialized {
		return a.Specialized
	}
	switch {
	case a.ReviewedAt == nil:
		return false
	case b.ReviewedAt == nil:
		return true
	default:
		return a.ReviewedAt.After(*b.ReviewedAt)
	}
}
