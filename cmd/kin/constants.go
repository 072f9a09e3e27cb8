package main

// Default limits for CLI commands.
const (
	DefaultSearchLimit = 20
	DefaultStatsTopN   = 10
)

// Valid export formats.
var validExportFormats = []string{"json", "csv"}

// Valid graph output formats.
var validGraphFormats = []string{"dot", "json"}
