// Package config loads the arbor configuration file and applies
// environment overrides.
package config
