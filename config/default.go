package config

import _ "embed"

// DefaultConfigYAML embedded default configuration, overridable by an
// external config file or SPENDTRACK_* environment variables.
//
//go:embed default.yaml
var DefaultConfigYAML []byte
