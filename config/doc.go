// Package config provides configuration management for gramflow.
//
// Configuration is loaded from defaults, then an optional YAML file,
// then environment variables, in that order of precedence.
package config
