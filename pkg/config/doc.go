// Package config loads the tool's typed configuration.
//
// Layers, later ones winning:
//  1. embedded defaults (embedded/defaults.toml)
//  2. a moddingtool.toml file, if present
//  3. MODDINGTOOL_* environment variables, "__" separating section and key
//  4. explicit overrides supplied by the caller (command-line flags)
//
// The result is a Config value built once at startup and passed down by
// parameter. Nothing in this package holds global state.
package config
