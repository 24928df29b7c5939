// Package export writes findings as JSON or CSV, either from a slice or
// streamed from a storage channel.
package export
