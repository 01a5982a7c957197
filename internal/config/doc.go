// Package config loads runtime configuration for the mustardseed CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with --config / -c. Files ending in
//     .toml are parsed as TOML, everything else as JSON.
//  3. Command-line flags explicitly set by the user, which override earlier
//     values.
//
// # File schema
//
//	{
//	  "backend": "sqlite",
//	  "database_path": "/home/me/.config/mustardseed/passwords.db",
//	  "display_mode": "masked",
//	  "csv_delimiter": ","
//	}
//
// Primary API
//
//   - type Config                         : all runtime settings
//   - func BindFlags(fs, target)          : registers flags on a pflag set
//   - func Load(fs, flags) (*Config, error): defaults, file, then set flags
//
// Note: This package does not read environment variables directly; use the
// config file or flags to configure values.
package config
