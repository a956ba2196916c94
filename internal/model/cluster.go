package model

import "time"

// SourceReference identifies one member article inside a cluster.
type SourceReference struct {
	URL           string     `json:"url"`
	Title         string     `json:"title,omitempty"`
	SiteName      string     `json:"site_name,omitempty"`
	Author        string     `json:"author,omitempty"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	SourceType    SourceType `json:"source_type"`
}

// StoryCluster groups records judged to describe the same underlying event.
// Created only in batch mode; mutated only by merges during clustering and
// frozen once clustering for the batch completes.
type StoryCluster struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Sources     []SourceReference `json:"sources"`
	Summary     *ContentSummary   `json:"summary,omitempty"`
	Records     []*ArticleRecord  `json:"-"`
	Merged      bool              `json:"merged"` // true when more than one record was consolidated
	MemberCount int               `json:"member_count"`
}

// BatchReport is the output contract consumed by exporters: ordered clusters
// plus the parallel unavailable-sources list. A completed run carries every
// input URL in exactly one of the two.
type BatchReport struct {
	ID               string              `json:"id"`
	GeneratedAt      time.Time           `json:"generated_at"`
	Clusters         []StoryCluster      `json:"clusters"`
	Unavailable      []UnavailableSource `json:"sources_unavailable"`
	TotalInput       int                 `json:"total_input"`
	TotalClustered   int                 `json:"total_clustered"`
	DuplicatesMerged int                 `json:"duplicates_merged"`
}
