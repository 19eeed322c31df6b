// Package config loads memtrans settings.
//
// Settings are merged by viper from, lowest priority first: built-in
// defaults, an optional YAML file, MEMTRANS_* environment variables and
// command-line flags. The merged result is then checked against the
// embedded CUE schema (schema.cue) before it is converted to typed
// Settings.
//
// Environment keys replace dots with underscores, so
// mutation.min_magnitude is read from MEMTRANS_MUTATION_MIN_MAGNITUDE.
package config
