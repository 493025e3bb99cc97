package crawler

import (
	"github.com/fdacrawl/refusalscan/internal/config"
	"github.com/fdacrawl/refusalscan/internal/page"
)

// Kind is the structural shape of a report-site page. Pages carry no
// machine-readable type marker, so the shape is inferred from which marker
// elements appear inside the user-content region.
type Kind int

const (
	// KindUnknown matches no known shape. It is a defined terminal state
	// of the traversal, not an error.
	KindUnknown Kind = iota

	// KindLinkIndex is an index page whose links live in list-navigation
	// elements.
	KindLinkIndex

	// KindTableLinkIndex is an index page whose links live in table cells.
	KindTableLinkIndex

	// KindDetail is a leaf page holding exactly one refusal record.
	KindDetail
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindLinkIndex:
		return "link_index"
	case KindTableLinkIndex:
		return "table_link_index"
	case KindDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Classify determines the shape of a page by probing its user-content
// region for marker elements. The probes run in priority order and the
// first match wins: list navigation beats the index tables, which beat the
// details table. A page matching none of the markers is KindUnknown.
//
// Classify is a pure function of the parsed tree; it never mutates the
// page, so classifying the same page twice yields the same kind.
func Classify(p *page.Page, markers config.Markers) Kind {
	region := p.Select(markers.Region)

	switch {
	case region.Find(markers.List).Length() > 0:
		return KindLinkIndex
	case region.Find(markers.TableNewLayout).Length() > 0,
		region.Find(markers.TableCountry).Length() > 0:
		return KindTableLinkIndex
	case region.Find(markers.Details).Length() > 0:
		return KindDetail
	default:
		return KindUnknown
	}
}
