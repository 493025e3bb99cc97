// Package page is the parsing collaborator of the crawler: it turns fetched
// bytes into a queryable document tree.
//
// Design decision: We use goquery (backed by golang.org/x/net/html) rather
// than walking html.Node trees by hand because:
//  1. It correctly handles the malformed HTML common on legacy report sites
//  2. Selector-based structural queries keep marker configuration simple
//  3. Direct-child scoping (needed by the detail extractor) comes for free
package page
