// Package dedupe clusters processed articles that describe the same
// underlying story. Clustering is greedy and incremental: each record joins
// the first existing cluster it is similar enough to, otherwise it seeds a
// new one. Similarity is a weighted token overlap over titles and summarizer
// entities; no network calls, no model inference.
package dedupe

import (
	"regexp"
	"strings"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// stopwords are dropped from title token sets; they carry no story identity.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "its": true, "it": true,
	"this": true, "that": true, "after": true, "over": true, "amid": true,
	"into": true, "new": true, "says": true, "say": true, "said": true,
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// representative is a cluster's accumulated token profile. Joining a cluster
// unions the new record's tokens in, so the cluster matches any phrasing its
// members have used.
type representative struct {
	titleTokens  map[string]bool
	entityTokens map[string]bool
}

func newRepresentative(rec *model.ArticleRecord) *representative {
	r := &representative{
		titleTokens:  make(map[string]bool),
		entityTokens: make(map[string]bool),
	}
	r.absorb(rec)
	return r
}

func (r *representative) absorb(rec *model.ArticleRecord) {
	for t := range titleTokens(rec) {
		r.titleTokens[t] = true
	}
	for t := range entityTokens(rec) {
		r.entityTokens[t] = true
	}
}

// titleTokens returns the normalized, stopword-free token set of the
// record's title.
func titleTokens(rec *model.ArticleRecord) map[string]bool {
	title := ""
	if rec.Content != nil {
		title = rec.Content.Title
	}
	out := make(map[string]bool)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(title), -1) {
		if len(tok) > 1 && !stopwords[tok] {
			out[tok] = true
		}
	}
	return out
}

// entityTokens returns the lowercased entity names from the record's
// summary.
func entityTokens(rec *model.ArticleRecord) map[string]bool {
	out := make(map[string]bool)
	if rec.Summary == nil {
		return out
	}
	for _, e := range rec.Summary.Entities {
		name := strings.TrimSpace(strings.ToLower(e.Text))
		if name != "" {
			out[name] = true
		}
	}
	return out
}

// jaccard computes |a ∩ b| / |a ∪ b|. Two empty sets score zero, not one:
// absence of evidence is not similarity.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if b[t] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// score computes the weighted similarity between a record and a cluster
// representative. When one side has no entities, the title score carries
// full weight rather than being diluted by a zero term.
func score(rec *model.ArticleRecord, rep *representative, cfg model.DedupeConfig) float64 {
	titleSim := jaccard(titleTokens(rec), rep.titleTokens)

	recEntities := entityTokens(rec)
	if len(recEntities) == 0 || len(rep.entityTokens) == 0 {
		return titleSim
	}
	entitySim := jaccard(recEntities, rep.entityTokens)
	return cfg.TitleWeight*titleSim + cfg.EntityWeight*entitySim
}
