// Package config loads httpstack settings from TOML or YAML files and turns
// them into httpclient and stacktrace options.
//
//	[client]
//	base_url = "http://localhost:9000"
//	timeout = "10s"
//
//	[stacktrace]
//	error_message = "Better Stacktrace"
//	strategy = "auto"
package config
