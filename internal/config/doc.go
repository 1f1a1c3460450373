// Package config loads, normalizes, and validates the TOML configuration for
// the storybook console.
//
// Configuration resolves from an explicit --config path, then
// ~/.config/storybook/config.toml, then ./storybook.toml, falling back to
// built-in defaults when no file exists. Path fields are tilde-expanded and
// made absolute during normalization, and the progress WebSocket URL is
// derived from the backend base URL when not set explicitly.
package config
