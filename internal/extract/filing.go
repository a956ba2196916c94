package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/rohannagpure45/operatorNewsCuration/internal/model"
)

// filingRowCap bounds how many holdings rows make it into the body; 13F
// tables for large funds run to thousands of positions.
const filingRowCap = 50

var filingMetricPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Total Value[:\s]+\$?[\d,.]+`),
	regexp.MustCompile(`(?i)Number of Holdings[:\s]+\d+`),
	regexp.MustCompile(`(?i)Report Date[:\s]+[\d/\-]+`),
}

var filingDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// StructuredHTMLParse extracts regulatory filings (13F holdings pages, EDGAR
// documents). These pages are data tables, not prose, so readability would
// discard the interesting parts; the tables are parsed directly instead.
// Regulatory filings have exactly this one strategy.
type StructuredHTMLParse struct {
	client      *http.Client
	userAgent   string
	maxBytes    int64
	maxAttempts int
}

// NewStructuredHTMLParse builds the strategy.
func NewStructuredHTMLParse(httpCfg model.HTTPConfig, extCfg model.ExtractionConfig) *StructuredHTMLParse {
	return &StructuredHTMLParse{
		client:      newHTTPClient(httpCfg, extCfg.AttemptTimeout),
		userAgent:   httpCfg.UserAgent,
		maxBytes:    httpCfg.MaxBodyBytes,
		maxAttempts: extCfg.DirectRetries,
	}
}

func (p *StructuredHTMLParse) Name() model.StrategyName { return model.StrategyStructuredHTML }

func (p *StructuredHTMLParse) MaxAttempts() int { return p.maxAttempts }

func (p *StructuredHTMLParse) Fetch(ctx context.Context, rawURL string) (*model.ExtractedContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, Permanent("malformed URL", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, rawURL)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes))
	if err != nil {
		return nil, Transient("read filing page", err)
	}

	return p.parse(rawURL, string(raw))
}

func (p *StructuredHTMLParse) parse(rawURL, page string) (*model.ExtractedContent, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, Permanent("unparsable filing page", err)
	}

	title := firstText(doc, "h1")
	if title == "" {
		title = firstText(doc, "title")
	}
	if title == "" {
		title = "Regulatory Filing"
	}

	rows := tableRows(doc)

	var metrics []string
	for _, re := range filingMetricPatterns {
		if m := re.FindString(page); m != "" {
			metrics = append(metrics, m)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(metrics) > 0 {
		b.WriteString("## Summary\n")
		b.WriteString(strings.Join(metrics, "\n"))
		b.WriteString("\n\n")
	}
	if len(rows) > 0 {
		b.WriteString("## Holdings\n")
		shown := rows
		if len(shown) > filingRowCap {
			shown = shown[:filingRowCap]
		}
		b.WriteString(strings.Join(shown, "\n"))
		if len(rows) > filingRowCap {
			fmt.Fprintf(&b, "\n... and %d more holdings", len(rows)-filingRowCap)
		}
	}

	body := strings.TrimSpace(b.String())
	if len(rows) == 0 && len(metrics) == 0 {
		// No structure found; fall back to the flattened page text.
		body = stripHTML(page)
		if strings.TrimSpace(body) == "" {
			return nil, Permanent("filing page has no content", nil)
		}
	}

	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = strings.TrimPrefix(u.Hostname(), "www.")
	}

	content := &model.ExtractedContent{
		URL:         rawURL,
		Title:       title,
		SiteName:    host,
		Body:        body,
		WordCount:   len(strings.Fields(body)),
		Strategy:    model.StrategyStructuredHTML,
		ExtractedAt: time.Now().UTC(),
	}
	if m := filingDatePattern.FindString(page); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			content.PublishedDate = &t
		}
	}
	return content, nil
}

// firstText returns the trimmed text of the first element with the given tag.
func firstText(doc *html.Node, tag string) string {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == tag {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(nodeText(found))
}

// tableRows flattens every table row in the document to "cell | cell | cell".
func tableRows(doc *html.Node) []string {
	var rows []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					if text := strings.TrimSpace(nodeText(c)); text != "" {
						cells = append(cells, text)
					}
				}
			}
			if len(cells) > 0 {
				rows = append(rows, strings.Join(cells, " | "))
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return rows
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}
