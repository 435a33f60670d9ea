package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pagesift/pagesift"
)

// ExtractLinks returns the same-host links found in rawHTML, resolved
// against pageURL and deduplicated, in document order. Fragments are
// stripped and links back to the page itself are skipped.
func ExtractLinks(rawHTML, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, pagesift.Errorf(pagesift.EINVALID, "invalid page URL %q: %v", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, pagesift.Errorf(pagesift.EPARSE, "failed to parse HTML: %v", err)
	}

	var links []string
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved := resolveURL(href, base)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links, nil
}

// resolveURL resolves href against base and returns the absolute URL, or
// empty when the link is not a same-host HTTP(S) page link.
func resolveURL(href string, base *url.URL) string {
	href = strings.TrimSpace(href)
	if href == "" || isNonHTTPLink(href) {
		return ""
	}

	u, err := base.Parse(href)
	if err != nil {
		return ""
	}
	u.Fragment = ""

	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if !isSameHost(u, base) {
		return ""
	}
	// Skip self-referential links; they carry no new content.
	if u.String() == base.String() {
		return ""
	}
	return u.String()
}

func isSameHost(u, base *url.URL) bool {
	return strings.EqualFold(u.Host, base.Host)
}

func isNonHTTPLink(href string) bool {
	lower := strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:", "#"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
