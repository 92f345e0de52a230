// Package config handles configuration loading, parsing, and validation.
// Settings come from built-in defaults, an optional YAML file and
// TASKBOARD_-prefixed environment variables, and are validated with
// go-playground/validator before use.
package config
