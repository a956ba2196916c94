package model

import "time"

// Claim is a fact-checkable assertion extracted from article text. Offsets
// reference the source body; the claim never owns the content.
type Claim struct {
	Text      string `json:"text"`
	Sentence  int    `json:"sentence"`            // sentence index in the body (0-based)
	Start     int    `json:"start,omitempty"`     // byte offset into the body
	End       int    `json:"end,omitempty"`       // byte offset past the claim
	Indicator string `json:"indicator,omitempty"` // which selection rule matched
}

// ClaimRating is one verification judgment on a claim.
type ClaimRating string

const (
	RatingTrue        ClaimRating = "true"
	RatingMostlyTrue  ClaimRating = "mostly_true"
	RatingMixed       ClaimRating = "mixed"
	RatingMostlyFalse ClaimRating = "mostly_false"
	RatingFalse       ClaimRating = "false"
	RatingUnverified  ClaimRating = "unverified"
)

// Rated reports whether the rating carries an explicit opinion.
func (r ClaimRating) Rated() bool {
	return r != RatingUnverified && r != ""
}

// ServiceRating is a single verification service's opinion on a claim.
type ServiceRating struct {
	Rating      ClaimRating `json:"rating"`
	Source      string      `json:"source"`                // service or fact-check publisher name
	Specialized bool        `json:"specialized,omitempty"` // paid/specialized service, outranks the free aggregator
	Confidence  float64     `json:"confidence,omitempty"`
	EvidenceURL string      `json:"evidence_url,omitempty"`
	Explanation string      `json:"explanation,omitempty"`
	ReviewedAt  *time.Time  `json:"reviewed_at,omitempty"`
}

// ClaimVerdict pairs a claim with its reconciled rating.
type ClaimVerdict struct {
	Claim       Claim       `json:"claim"`
	Rating      ClaimRating `json:"rating"`
	Source      string      `json:"source,omitempty"`
	EvidenceURL string      `json:"evidence_url,omitempty"`
	Explanation string      `json:"explanation,omitempty"`
	ReviewedAt  *time.Time  `json:"reviewed_at,omitempty"`
	Opinions    int         `json:"opinions"` // how many service ratings were reconciled
}

// VerificationResult is the reconciled fact-check output for one record.
// Created once per record, immutable after reconciliation. Service outages
// degrade it (fewer verdicts, lower confidence) but never fail the record.
type VerificationResult struct {
	Verdicts          []ClaimVerdict `json:"verdicts"`
	ClaimsAnalyzed    int            `json:"claims_analyzed"`
	Credibility       float64        `json:"credibility"` // publisher credibility, 0..1, 0.5 when no rater configured
	CredibilitySource string         `json:"credibility_source,omitempty"`
	ServicesQueried   int            `json:"services_queried"`
	ServicesFailed    int            `json:"services_failed"`
	Confidence        string         `json:"confidence"` // low, medium, high
	CheckedAt         time.Time      `json:"checked_at"`
}
