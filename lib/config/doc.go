// Package config defines the configuration surface of the dashboard
// backend: application settings, security limits (session timeout, login
// attempt cap, password minimum length), the statically configured admin
// and default accounts, and the storage backend selection with pool tuning.
//
// The structs are format-agnostic; cmd/serve populates them through viper
// from flags, SDASH_* environment variables and an optional config file.
package config
