// Package config builds the pipeline configuration once, at the process
// boundary, from three layers (lowest precedence first):
//
//  1. a YAML file (fxload.yaml, or the path given with --config)
//  2. the process environment, after loading .env if present
//  3. command line flags
//
// Secrets (service-account JSON, AWS keys, Azure client secret) are read
// from the environment or flags only. The result is an immutable Config
// that is validated in one pass: every missing or malformed field is
// reported together in a single fxload.ConfigError.
package config
