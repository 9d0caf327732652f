// Package config defines the door alarm settings and provides helpers to
// load, validate and save them in YAML format.
//
// Validate fills every optional field with its default, so code downstream of
// Load never has to handle zero values.
package config
