// Package config defines installer settings and provides helpers to load,
// validate and save them in YAML format.
//
// The Config type holds the required runtime probe and install command,
// the artifact and version marker URLs, and transfer timing.
package config
