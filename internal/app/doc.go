// Package app wires the application together: it owns the logger, the
// loaded experiment manifest and the dispatch of one parsed CLI command
// to the batch, aggregation and comparison machinery.
package app
