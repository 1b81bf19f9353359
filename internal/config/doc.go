// Package config loads, normalizes, and validates Photonym configuration.
//
// Configuration is a single TOML file. Load applies repository defaults,
// expands ~ in path fields, fills missing values from the environment where a
// conventional variable exists, and validates the result. Components receive
// a *Config and read the sections they need; nothing reads the file twice.
package config
