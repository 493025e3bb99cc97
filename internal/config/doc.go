// Package config provides configuration structures and utilities for
// refusalscan. It defines the crawl options, the structural marker selectors
// that drive page classification, and the YAML configuration file loader.
package config
