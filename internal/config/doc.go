// Package config defines configuration structures for the fgo-sheba CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (SHEBA_ prefix)
//   - YAML configuration file
//
// # Structure
//
//	type Config struct {
//	    Region      string
//	    Output      string
//	    Limit       int
//	    Workers     int
//	    TaskTimeout time.Duration
//	    Progress    bool
//	    Retry       RetryConfig
//	}
//
//	type RetryConfig struct {
//	    Attempts   int
//	    Backoff    time.Duration
//	    MaxBackoff time.Duration
//	}
package config
