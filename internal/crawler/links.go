package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fdacrawl/refusalscan/internal/config"
	"github.com/fdacrawl/refusalscan/internal/page"
)

// CollectListLinks returns the absolutized target of every anchor inside
// the region's list-navigation elements, in document order.
func CollectListLinks(p *page.Page, markers config.Markers) []string {
	return collectLinks(p.Select(markers.Region).Find(markers.List), p.BaseURL())
}

// CollectTableLinks is CollectListLinks restricted to the region's table
// elements. Table-of-links index pages keep their anchors in cells instead
// of list items; everything else about the contract is identical.
func CollectTableLinks(p *page.Page, markers config.Markers) []string {
	return collectLinks(p.Select(markers.Region).Find(markers.Table), p.BaseURL())
}

// collectLinks gathers the hrefs of all anchors under scope, absolutized
// against base. Anchors whose href is skipped by Absolutize contribute
// nothing; the rest keep document order.
func collectLinks(scope *goquery.Selection, base string) []string {
	links := make([]string, 0)
	scope.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if link := Absolutize(base, href); link != "" {
			links = append(links, link)
		}
	})
	return links
}

// Absolutize turns an href into a crawlable URL. An href already carrying
// a recognized scheme (http:// or https://) is kept as-is; anything else
// is appended to base by plain concatenation, not RFC 3986 resolution:
// "ir_detail.cfm?id=5" under base "http://host/path/" becomes
// "http://host/path/ir_detail.cfm?id=5".
//
// Empty and fragment-only hrefs produce no URL and return "".
func Absolutize(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return base + href
}
