// Package config provides configuration loading, merging, and validation
// facilities for the dbxdelta binary.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for non-zero fields):
//  1. Command-line flags
//  2. Environment variables
//  3. JSON config file
//  4. Defaults
//
// The main entry points are [GetStructuredConfig] for the merged
// configuration and [GetClientConfig] for the runtime view.
package config
