// Package config persists the gopress engine configuration.
//
// The configuration is a small JSON document holding the rendering engine
// license key and major version. Load expands the configured path, falls
// back to defaults when the file is absent, and Save guards concurrent
// writers with a file lock so parallel invocations cannot clobber each
// other. Keys are fixed; Set rejects anything it does not know about.
package config
