// Package observability defines the logging capability shared by all
// pipeline components. Components receive a Logger at construction time
// instead of reaching for a global; the slogobs subpackage provides the
// standard-library-backed implementation.
package observability
