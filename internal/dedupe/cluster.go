package dedupe

import (
	"strings"

	"github.com/google/uuid"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// Schema caps on merged summaries, matching the single-article limits.
const (
	maxKeyPoints    = 10
	maxEntities     = 15
	maxImplications = 5
	maxFootnotes    = 5
	maxTopics       = 8
)

// Clusterer groups article records into story clusters.
type Clusterer struct {
	cfg model.DedupeConfig
}

// NewClusterer builds a clusterer from config.
func NewClusterer(cfg model.DedupeConfig) *Clusterer {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 0.60
	}
	if cfg.TitleWeight <= 0 && cfg.EntityWeight <= 0 {
		cfg.TitleWeight, cfg.EntityWeight = 0.65, 0.35
	}
	return &Clusterer{cfg: cfg}
}

// Cluster assigns each record with usable content to exactly one story
// cluster, in input order. Records without content are ignored; the batch
// layer reports those separately. Given the same records in the same order,
// the assignment is identical.
func (c *Clusterer) Cluster(records []*model.ArticleRecord) []model.StoryCluster {
	var eligible []*model.ArticleRecord
	for _, rec := range records {
		if rec.Extracted() {
			eligible = append(eligible, rec)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	// Arena of cluster member lists plus a parallel assignment array; the
	// representative absorbs each joining record so later phrasings of the
	// story still match.
	var arenas [][]*model.ArticleRecord
	var reps []*representative
	assignment := make([]int, len(eligible))

	for i, rec := range eligible {
		assigned := -1
		bestScore := 0.0
		for ci, rep := range reps {
			if s := score(rec, rep, c.cfg); s >= c.cfg.Threshold && s > bestScore {
				assigned = ci
				bestScore = s
			}
		}
		if assigned < 0 {
			arenas = append(arenas, []*model.ArticleRecord{rec})
			reps = append(reps, newRepresentative(rec))
			assignment[i] = len(arenas) - 1
			continue
		}
		arenas[assigned] = append(arenas[assigned], rec)
		reps[assigned].absorb(rec)
		assignment[i] = assigned
	}

	clusters := make([]model.StoryCluster, len(arenas))
	for ci, members := range arenas {
		clusters[ci] = c.build(members)
	}
	return clusters
}

// build finalizes one cluster from its member records.
func (c *Clusterer) build(members []*model.ArticleRecord) model.StoryCluster {
	cluster := model.StoryCluster{
		ID:          uuid.NewString(),
		Records:     members,
		Merged:      len(members) > 1,
		MemberCount: len(members),
	}

	for _, rec := range members {
		ref := model.SourceReference{
			URL:        rec.URL,
			SourceType: rec.SourceType,
		}
		if rec.Content != nil {
			ref.Title = rec.Content.Title
			ref.SiteName = rec.Content.SiteName
			ref.Author = rec.Content.Author
			ref.PublishedDate = rec.Content.PublishedDate
		}
		cluster.Sources = append(cluster.Sources, ref)
	}

	cluster.Title = clusterTitle(members)
	cluster.Summary = mergeSummaries(members)
	return cluster
}

// clusterTitle takes the first member's title; input order makes this
// deterministic.
func clusterTitle(members []*model.ArticleRecord) string {
	for _, rec := range members {
		if rec.Content != nil && rec.Content.Title != "" {
			return rec.Content.Title
		}
	}
	return members[0].URL
}

// mergeSummaries unions the member summaries: key points and implications
// deduped case-insensitively keeping first occurrence, entities deduped by
// name, footnotes renumbered sequentially, dominant sentiment by count, all
// under the schema caps.
func mergeSummaries(members []*model.ArticleRecord) *model.ContentSummary {
	var summaries []*model.ContentSummary
	for _, rec := range members {
		if rec.Summary != nil {
			summaries = append(summaries, rec.Summary)
		}
	}
	if len(summaries) == 0 {
		return nil
	}
	if len(summaries) == 1 {
		return summaries[0]
	}

	merged := &model.ContentSummary{}

	var execs []string
	seenPoints := make(map[string]bool)
	seenImplications := make(map[string]bool)
	seenEntities := make(map[string]bool)
	seenTopics := make(map[string]bool)
	sentimentCounts := make(map[model.Sentiment]int)

	for _, s := range summaries {
		if s.ExecutiveSummary != "" {
			execs = append(execs, s.ExecutiveSummary)
		}
		for _, p := range s.KeyPoints {
			key := strings.ToLower(strings.TrimSpace(p))
			if !seenPoints[key] {
				seenPoints[key] = true
				merged.KeyPoints = append(merged.KeyPoints, p)
			}
		}
		for _, imp := range s.Implications {
			key := strings.ToLower(strings.TrimSpace(imp))
			if !seenImplications[key] {
				seenImplications[key] = true
				merged.Implications = append(merged.Implications, imp)
			}
		}
		for _, e := range s.Entities {
			key := strings.ToLower(e.Text)
			if !seenEntities[key] {
				seenEntities[key] = true
				merged.Entities = append(merged.Entities, e)
			}
		}
		for _, topic := range s.Topics {
			key := strings.ToLower(topic)
			if !seenTopics[key] {
				seenTopics[key] = true
				merged.Topics = append(merged.Topics, topic)
			}
		}
		merged.Footnotes = append(merged.Footnotes, s.Footnotes...)
		sentimentCounts[s.Sentiment]++
	}

	merged.ExecutiveSummary = strings.Join(execs, " | ")
	merged.Sentiment = dominantSentiment(summaries, sentimentCounts)

	merged.KeyPoints = capStrings(merged.KeyPoints, maxKeyPoints)
	merged.Implications = capStrings(merged.Implications, maxImplications)
	merged.Topics = capStrings(merged.Topics, maxTopics)
	if len(merged.Entities) > maxEntities {
		merged.Entities = merged.Entities[:maxEntities]
	}
	if len(merged.Footnotes) > maxFootnotes {
		merged.Footnotes = merged.Footnotes[:maxFootnotes]
	}
	for i := range merged.Footnotes {
		merged.Footnotes[i].ID = i + 1
	}
	return merged
}

// dominantSentiment is the most frequent member sentiment; ties break on
// first appearance order.
func dominantSentiment(summaries []*model.ContentSummary, counts map[model.Sentiment]int) model.Sentiment {
	best := model.SentimentNeutral
	bestCount := 0
	for _, s := range summaries {
		if c := counts[s.Sentiment]; c > bestCount {
			best = s.Sentiment
			bestCount = c
		}
	}
	return best
}

func capStrings(in []string, max int) []string {
	if len(in) > max {
		return in[:max]
	}
	return in
}
