// Package config loads rigkit configuration with koanf: embedded defaults,
// the user's XDG config file, an explicit --config file and RIGKIT_* variables.
package config
