// Package config provides configuration management for skillhound.
//
// Configuration comes from three layers, applied in order:
//  1. Compile-time defaults (documented constants in this package)
//  2. An optional YAML file (.skillhound in the current or home directory)
//  3. CLI flags, which always win
//
// The database location defaults to the XDG data directory so that crawl
// state survives across working directories.
package config
