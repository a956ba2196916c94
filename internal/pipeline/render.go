package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// Renderer writes batch reports as JSON and as a Markdown briefing.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report to path.
func (r *Renderer) RenderJSON(report *model.BatchReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// RenderMarkdown writes the briefing to path.
func (r *Renderer) RenderMarkdown(report *model.BatchReport, path string) error {
	return os.WriteFile(path, []byte(r.Markdown(report)), 0o644)
}

// Markdown renders the briefing: one section per story cluster in cluster
// order, then the unavailable-sources list.
func (r *Renderer) Markdown(report *model.BatchReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# News Briefing\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "%d input URLs, %d stories", report.TotalInput, len(report.Clusters))
	if report.DuplicatesMerged > 0 {
		fmt.Fprintf(&b, " (%d duplicates merged)", report.DuplicatesMerged)
	}
	b.WriteString("\n\n")

	for i, cluster := range report.Clusters {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, cluster.Title)
		if cluster.Merged {
			fmt.Fprintf(&b, "*Consolidated from %d sources.*\n\n", cluster.MemberCount)
		}

		if s := cluster.Summary; s != nil {
			fmt.Fprintf(&b, "%s\n\n", s.ExecutiveSummary)
			if len(s.KeyPoints) > 0 {
				b.WriteString("**Key points:**\n\n")
				for _, p := range s.KeyPoints {
					fmt.Fprintf(&b, "- %s\n", p)
				}
				b.WriteString("\n")
			}
			if len(s.Implications) > 0 {
				b.WriteString("**Implications:**\n\n")
				for _, imp := range s.Implications {
					fmt.Fprintf(&b, "- %s\n", imp)
				}
				b.WriteString("\n")
			}
			if s.Sentiment != "" {
				fmt.Fprintf(&b, "Sentiment: %s\n\n", s.Sentiment)
			}
		}

		renderVerdicts(&b, cluster.Records)

		b.WriteString("**Sources:**\n\n")
		for _, src := range cluster.Sources {
			line := src.URL
			if src.SiteName != "" {
				line = fmt.Sprintf("%s — %s", src.SiteName, src.URL)
			}
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")

		if s := cluster.Summary; s != nil && len(s.Footnotes) > 0 {
			b.WriteString("**Footnotes:**\n\n")
			for _, fn := range s.Footnotes {
				fmt.Fprintf(&b, "%d. %q", fn.ID, fn.SourceText)
				if fn.Context != "" {
					fmt.Fprintf(&b, " (%s)", fn.Context)
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	if len(report.Unavailable) > 0 {
		b.WriteString("## Sources Unavailable\n\n")
		for _, u := range report.Unavailable {
			fmt.Fprintf(&b, "- %s — %s\n", u.URL, u.Reason)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\nBriefing %s · newscurator\n", report.ID)
	}
	return b.String()
}

// renderVerdicts surfaces rated fact-check verdicts for the cluster's
// members. Unverified verdicts stay out of the briefing; they are noise at
// this level.
func renderVerdicts(b *strings.Builder, records []*model.ArticleRecord) {
	var lines []string
	for _, rec := range records {
		if rec.Verification == nil {
			continue
		}
		for _, v := range rec.Verification.Verdicts {
			if !v.Rating.Rated() {
				continue
			}
			line := fmt.Sprintf("- %q — **%s**", v.Claim.Text, v.Rating)
			if v.Source != "" {
				line += fmt.Sprintf(" (%s)", v.Source)
			}
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return
	}
	b.WriteString("**Fact checks:**\n\n")
	for _, l := range lines {
		b.WriteString(l + "\n")
	}
	b.WriteString("\n")
}

// RenderSummary prints a short run summary to stdout.
func (r *Renderer) RenderSummary(report *model.BatchReport) {
	fmt.Printf("Processed %d URLs: %d clustered into %d stories, %d unavailable\n",
		report.TotalInput, report.TotalClustered, len(report.Clusters), len(report.Unavailable))
	for i, c := range report.Clusters {
		marker := " "
		if c.Merged {
			marker = "*"
		}
		fmt.Printf("  %s %d. %s (%d source(s))\n", marker, i+1, c.Title, c.MemberCount)
	}
	for _, u := range report.Unavailable {
		fmt.Printf("  ! unavailable: %s (%s)\n", u.URL, u.Reason)
	}
}
