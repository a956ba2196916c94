// Package factcheck extracts checkable claims from article text, fans them
// out across verification services, and reconciles the responses into one
// verdict per claim. Service outages degrade the result; they never fail it.
package factcheck

import (
	"regexp"
	"strings"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// Sentence length bounds for checkable claims. Shorter fragments carry no
// checkable assertion; longer ones are compound sentences that confuse the
// search APIs.
const (
	minClaimLen = 20
	maxClaimLen = 300
)

type indicator struct {
	name    string
	pattern *regexp.Regexp
}

// claimIndicators are checked in order; the first match tags the sentence.
var claimIndicators = []indicator{
	{"attribution", regexp.MustCompile(`(?i)\b(according to|reports? say|studies? show|research shows?)\b`)},
	{"quantity", regexp.MustCompile(`(?i)\b(percent|%|\d+\s*(million|billion|trillion))\b`)},
	{"trend", regexp.MustCompile(`(?i)\b(increased|decreased|grew|fell|rose|dropped)\b`)},
	{"statement", regexp.MustCompile(`(?i)\b(announced|claimed|stated|said|confirmed)\b`)},
	{"prediction", regexp.MustCompile(`(?i)\b(will|would|could|should|must)\b.*\b(happen|occur|result)\b`)},
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// SelectClaims pulls up to maxClaims checkable sentences from the body,
// in document order. Selection is deterministic: same body, same claims.
// Start/End are byte offsets that slice the body exactly:
// body[Start:End] == Text.
func SelectClaims(body string, maxClaims int) []model.Claim {
	if maxClaims <= 0 {
		return nil
	}

	var claims []model.Claim
	delims := sentenceSplit.FindAllStringIndex(body, -1)
	segStart := 0
	for seg := 0; seg <= len(delims); seg++ {
		rawStart := segStart
		rawEnd := len(body)
		if seg < len(delims) {
			rawEnd = delims[seg][0]
			segStart = delims[seg][1]
		}
		raw := body[rawStart:rawEnd]
		sentence := strings.TrimSpace(raw)

		if len(sentence) < minClaimLen || len(sentence) > maxClaimLen {
			continue
		}
		start := rawStart + strings.Index(raw, sentence)

		for _, ind := range claimIndicators {
			if ind.pattern.MatchString(sentence) {
				claims = append(claims, model.Claim{
					Text:      sentence,
					Sentence:  seg,
					Start:     start,
					End:       start + len(sentence),
					Indicator: ind.name,
				})
				break
			}
		}
		if len(claims) == maxClaims {
			break
		}
	}
	return claims
}
