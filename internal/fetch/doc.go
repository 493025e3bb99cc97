// Package fetch is the network collaborator of the crawler: it retrieves
// raw page content over HTTP.
//
// The package deliberately has no algorithmic content. It performs one GET
// per call, decodes the body to UTF-8, and wraps every failure in a
// *NetworkError. There are no retries, no politeness delays, and no
// caching; the crawler's contract treats a failed fetch as fatal for the
// branch it occurred on.
package fetch
