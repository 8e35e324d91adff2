// Package config loads the console configuration.
//
// # Sources
//
// Load merges four layers, later ones winning:
//
//  1. Built-in defaults
//  2. The config file (~/.config/pantopia/config.toml, or config.yaml)
//  3. PANTOPIA_* environment variables, with __ separating nested keys
//     (PANTOPIA_PROCESSING__POLL_INTERVAL=5s)
//  4. Command-line flags that were explicitly set
//
// A missing config file is NOT an error; the console runs against the local
// mock API out of the box.
//
// # File Format
//
// TOML is the default. Files ending in .yaml or .yml are parsed as YAML.
//
//	api_url = "https://crm.example.com/api/v1"
//	login_url = "https://crm.example.com/login"
//	data_dir = "~/.local/share/pantopia"
//	request_timeout = "10s"
//
//	[processing]
//	poll_interval = "3s"
//	max_failures = 5
//	max_backoff = "30s"
//
// Empty strings fall back to defaults and a leading ~ is expanded in every
// path field.
package config
