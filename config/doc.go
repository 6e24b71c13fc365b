// Package config handles application configuration loading and validation.
//
// Configuration starts from built-in defaults, is overlaid by config.yml and
// environment variables, and is validated using struct tags. The result is a
// plain value handed to the components that need it.
package config
