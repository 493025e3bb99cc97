package config

// Markers holds the structural marker selectors that drive page
// classification and link collection. Report sites rarely change their
// template, but when they do the selectors can be adjusted in the
// configuration file without a rebuild.
//
// All values are CSS selectors as understood by goquery/cascadia.
type Markers struct {
	// Region selects the user-content region of a page: the subsection of
	// the template that holds page-specific content, as opposed to
	// site-wide boilerplate. All classification is restricted to it.
	Region string `yaml:"region,omitempty"`

	// List selects the list-navigation elements of a link-list index page.
	List string `yaml:"list,omitempty"`

	// TableNewLayout selects the "new layout" table marker of a
	// table-of-links index page.
	TableNewLayout string `yaml:"tableNewLayout,omitempty"`

	// TableCountry selects the "country" table marker, the alternative
	// table-of-links index shape.
	TableCountry string `yaml:"tableCountry,omitempty"`

	// Table selects the table elements link collection is restricted to
	// on table-of-links index pages.
	Table string `yaml:"table,omitempty"`

	// Details selects the details table of a terminal record page.
	Details string `yaml:"details,omitempty"`
}

// DefaultMarkers returns the marker selectors of the report-site template
// this tool was written for.
func DefaultMarkers() Markers {
	return Markers{
		Region:         "#user-content",
		List:           "ul",
		TableNewLayout: "table#new-layout",
		TableCountry:   "table#country",
		Table:          "table",
		Details:        "table#details",
	}
}

// merge overlays non-empty override selectors onto m.
func (m Markers) merge(override Markers) Markers {
	result := m
	if override.Region != "" {
		result.Region = override.Region
	}
	if override.List != "" {
		result.List = override.List
	}
	if override.TableNewLayout != "" {
		result.TableNewLayout = override.TableNewLayout
	}
	if override.TableCountry != "" {
		result.TableCountry = override.TableCountry
	}
	if override.Table != "" {
		result.Table = override.Table
	}
	if override.Details != "" {
		result.Details = override.Details
	}
	return result
}

// Validate checks that no marker selector is empty.
func (m Markers) Validate() error {
	for _, selector := range []string{
		m.Region, m.List, m.TableNewLayout, m.TableCountry, m.Table, m.Details,
	} {
		if selector == "" {
			return ErrEmptyMarker
		}
	}
	return nil
}
