// Package utils contains small helpers shared by the provider adapters:
// JSON-over-HTTP request execution, string truncation for log output, and
// pointer construction for optional settings fields.
package utils
