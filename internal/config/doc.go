// Package config loads the list of spider variants and process settings.
//
// Variants come from a YAML file or, when none is given, from the built-in
// example list. Process settings come from the environment, optionally
// seeded from a .env file.
package config
