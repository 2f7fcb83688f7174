// Package config loads trenchmap settings with viper. Values come from
// defaults, then trenchmap.yaml, then TRENCHMAP_* environment variables
// (a .env file is loaded into the environment first).
package config
