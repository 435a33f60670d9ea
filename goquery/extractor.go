// Package goquery provides the selector cascade extractor: an ordered set of
// structural heuristics that locates the main content block in a page.
package goquery

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pagesift/pagesift"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Extractor implements pagesift.Extractor at compile time.
var _ pagesift.Extractor = (*Extractor)(nil)

// Default text-length thresholds for cascade tiers. The last-resort body
// tier demands the most text because whole-body dumps are the noisiest.
const (
	DefaultTierMinTextLen = 140
	DefaultBodyMinTextLen = 280
)

// Tier is one level of the selector cascade. Tiers are evaluated in order;
// the first tier with a candidate meeting its threshold wins.
type Tier struct {
	// Name labels the tier in results ("article", "main", ...).
	Name string

	// Selector is the CSS selector matching candidate containers.
	Selector string

	// MinTextLen is the minimum post-strip text length a candidate must
	// reach to qualify.
	MinTextLen int
}

// DefaultTiers returns the standard cascade: semantic article containers,
// then main landmarks, then well-known content class names.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "article", Selector: "article", MinTextLen: DefaultTierMinTextLen},
		{Name: "main", Selector: "main, [role=main]", MinTextLen: DefaultTierMinTextLen},
		{
			Name: "content-class",
			Selector: "div.content, .post-content, .entry-content, .article-content, " +
				".blog-content, .blog-post, .article-body, .post-body",
			MinTextLen: DefaultTierMinTextLen,
		},
	}
}

// Extractor picks the best candidate content block from an HTML page.
// Boilerplate regions are excluded during text measurement and from the
// returned content HTML, but the parsed tree itself is never mutated, so
// extraction is deterministic regardless of tier evaluation order.
type Extractor struct {
	tiers       []Tier
	fallback    pagesift.Extractor
	bodyMinText int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTiers replaces the default cascade tiers.
func WithTiers(tiers []Tier) Option {
	return func(e *Extractor) {
		e.tiers = tiers
	}
}

// WithFallback sets the extractor consulted between the class-based tiers
// and the body tier, typically a readability implementation that finds the
// largest text-bearing block.
func WithFallback(fallback pagesift.Extractor) Option {
	return func(e *Extractor) {
		e.fallback = fallback
	}
}

// WithBodyMinTextLen sets the threshold for the last-resort body tier.
func WithBodyMinTextLen(n int) Option {
	return func(e *Extractor) {
		e.bodyMinText = n
	}
}

// NewExtractor creates an Extractor with the default cascade.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		tiers:       DefaultTiers(),
		bodyMinText: DefaultBodyMinTextLen,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract evaluates the cascade against rawHTML and returns the winning
// block, or an empty result when no candidate meets any threshold.
func (e *Extractor) Extract(rawHTML string) (*pagesift.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, pagesift.Errorf(pagesift.EPARSE, "failed to parse HTML: %v", err)
	}

	for _, tier := range e.tiers {
		if winner := bestCandidate(doc, tier); winner != nil {
			contentHTML, err := renderStripped(winner)
			if err != nil {
				return nil, err
			}
			return &pagesift.ExtractResult{
				Title:       blockTitle(winner, doc),
				Text:        visibleText(winner),
				ContentHTML: contentHTML,
				Tier:        tier.Name,
			}, nil
		}
	}

	// Between the structural tiers and the body dump, let the fallback
	// extractor (readability) look for the largest text-bearing block.
	if e.fallback != nil {
		if res, err := e.fallback.Extract(rawHTML); err == nil && !res.Empty() {
			return res, nil
		}
	}

	// Last resort: whole-body text. No content HTML is returned for this
	// tier; the text is already the final form.
	if body := doc.Find("body"); body.Length() > 0 {
		text := visibleText(body.Nodes[0])
		if len(text) >= e.bodyMinText {
			return &pagesift.ExtractResult{
				Title: documentTitle(doc),
				Text:  text,
				Tier:  "body",
			}, nil
		}
	}

	return &pagesift.ExtractResult{}, nil
}

// bestCandidate returns the node with the greatest post-strip text length
// among the tier's matches that meet its threshold, or nil if none qualify.
// Document order breaks exact ties, keeping selection deterministic.
func bestCandidate(doc *goquery.Document, tier Tier) *html.Node {
	var winner *html.Node
	var winnerLen int

	doc.Find(tier.Selector).Each(func(_ int, sel *goquery.Selection) {
		for _, n := range sel.Nodes {
			textLen := len(visibleText(n))
			if textLen >= tier.MinTextLen && textLen > winnerLen {
				winner = n
				winnerLen = textLen
			}
		}
	})

	return winner
}

// blockTitle finds a title for the winning block: the first heading inside
// the block, then the document fallback chain.
func blockTitle(block *html.Node, doc *goquery.Document) string {
	if t := firstHeadingText(block); t != "" {
		return t
	}
	return documentTitle(doc)
}

// documentTitle returns the page-level title: first h1, then og:title, then
// the <title> element. Empty when the page offers none.
func documentTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return collapseSpace(t)
	}
	if t, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if t = strings.TrimSpace(t); t != "" {
			return collapseSpace(t)
		}
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return collapseSpace(t)
	}
	return ""
}

func firstHeadingText(n *html.Node) string {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.H1, atom.H2, atom.H3:
			return collapseSpace(visibleText(n))
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := firstHeadingText(c); t != "" {
			return t
		}
	}
	return ""
}

// hiddenStylePatterns match inline styles that hide an element. Hidden
// elements never contribute text.
var hiddenStylePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)display\s*:\s*none`),
	regexp.MustCompile(`(?i)visibility\s*:\s*hidden`),
}

// denyClassTokens are class names whose elements are treated as boilerplate.
// Matched against whole class tokens, lowercased.
var denyClassTokens = map[string]bool{
	"nav": true, "navbar": true, "navigation": true, "menu": true,
	"sidebar": true, "footer": true, "breadcrumb": true, "breadcrumbs": true,
	"ad": true, "ads": true, "advert": true, "advertisement": true,
	"promo": true, "social": true, "share": true, "comments": true,
	"related": true, "pagination": true, "cookie": true, "cookie-banner": true,
}

// denyRoles are ARIA landmark roles excluded from content.
var denyRoles = map[string]bool{
	"navigation": true, "banner": true, "contentinfo": true, "complementary": true,
}

// skipElement reports whether an element subtree is boilerplate.
func skipElement(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Iframe,
		atom.Nav, atom.Footer, atom.Header, atom.Aside, atom.Form:
		return true
	}
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "role":
			if denyRoles[strings.ToLower(strings.TrimSpace(a.Val))] {
				return true
			}
		case "class":
			for _, token := range strings.Fields(strings.ToLower(a.Val)) {
				if denyClassTokens[token] {
					return true
				}
			}
		case "style":
			for _, pat := range hiddenStylePatterns {
				if pat.MatchString(a.Val) {
					return true
				}
			}
		}
	}
	return false
}

// blockBoundary reports whether closing this element should start a new
// paragraph in collected text.
func blockBoundary(n *html.Node) bool {
	switch n.DataAtom {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Main,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Li, atom.Ul, atom.Ol, atom.Dl, atom.Dd, atom.Dt,
		atom.Table, atom.Tr, atom.Blockquote, atom.Pre, atom.Figure,
		atom.Figcaption:
		return true
	}
	return false
}

// visibleText collects the visible text of a subtree, skipping boilerplate
// regions. Inline text is joined with single spaces; block boundaries become
// blank lines, so paragraph structure survives into plain text.
func visibleText(root *html.Node) string {
	var tc textCollector
	tc.walk(root)
	return tc.sb.String()
}

type textCollector struct {
	sb        strings.Builder
	needBreak bool
	needSpace bool
}

func (tc *textCollector) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		text := collapseSpace(n.Data)
		if text == "" {
			return
		}
		if tc.sb.Len() > 0 {
			if tc.needBreak {
				tc.sb.WriteString("\n\n")
			} else if tc.needSpace {
				tc.sb.WriteByte(' ')
			}
		}
		tc.sb.WriteString(text)
		tc.needBreak = false
		tc.needSpace = true
	case html.ElementNode:
		if skipElement(n) {
			return
		}
		if n.DataAtom == atom.Br {
			tc.needBreak = tc.sb.Len() > 0
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			tc.walk(c)
		}
		if blockBoundary(n) && tc.sb.Len() > 0 {
			tc.needBreak = true
		}
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			tc.walk(c)
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// renderStripped renders a block with boilerplate subtrees removed. The
// source tree is cloned, never mutated.
func renderStripped(n *html.Node) (string, error) {
	clone := cloneStripped(n)
	if clone == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, clone); err != nil {
		return "", pagesift.Errorf(pagesift.EINTERNAL, "failed to render content block: %v", err)
	}
	return buf.String(), nil
}

func cloneStripped(n *html.Node) *html.Node {
	if skipElement(n) {
		return nil
	}
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if cc := cloneStripped(c); cc != nil {
			clone.AppendChild(cc)
		}
	}
	return clone
}
