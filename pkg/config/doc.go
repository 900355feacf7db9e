// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - the first Load reads .env from the working directory, if present;
//   - LoadEnv reads additional .env files without overriding variables that
//     are already set;
//   - Load and LoadPrefixed parse the environment into a struct using `env`
//     tags and cache the result per type and prefix.
//
// # Usage
//
//	type Settings struct {
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	    Runs     int    `env:"RUNS" envDefault:"3"`
//	}
//
//	var s Settings
//	if err := config.LoadPrefixed("WEAKBENCH_", &s); err != nil {
//	    log.Fatal(err)
//	}
//
// Parse failures wrap ErrParsingConfig and are not cached, so a later call
// after fixing the environment parses again. Reset clears the cache between
// tests.
package config
