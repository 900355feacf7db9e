package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type cacheKey struct {
	typ    reflect.Type
	prefix string
}

type cacheEntry struct {
	once  sync.Once
	value any
	err   error
}

var (
	// cache holds one parsed value per (type, prefix).
	cache sync.Map // cacheKey -> *cacheEntry

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into v using its `env` struct tags.
// Each configuration type is parsed once; later calls copy the cached value.
//
//	type Settings struct {
//		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
//
//	var s Settings
//	if err := config.Load(&s); err != nil {
//		// handle error
//	}
//
// The first call also reads a .env file from the working directory when one
// exists.
func Load[T any](v *T) error {
	return LoadPrefixed("", v)
}

// LoadPrefixed is Load with every variable name prefixed, so a field tagged
// `env:"LOG_LEVEL"` reads APP_LOG_LEVEL for prefix "APP_".
func LoadPrefixed[T any](prefix string, v *T) error {
	defaultEnvLoaded.Do(func() {
		// A missing .env is fine.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}
	if reflect.TypeFor[T]().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %v", ErrInvalidConfigType, reflect.TypeFor[T]())
	}

	key := cacheKey{typ: reflect.TypeFor[T](), prefix: prefix}
	raw, _ := cache.LoadOrStore(key, &cacheEntry{})
	ent := raw.(*cacheEntry)
	ent.once.Do(func() {
		var parsed T
		if err := env.ParseWithOptions(&parsed, env.Options{Prefix: prefix}); err != nil {
			ent.err = errors.Join(ErrParsingConfig, err)
			return
		}
		ent.value = parsed
	})
	if ent.err != nil {
		// Failed parses are not cached, so a fixed environment can be retried.
		cache.CompareAndDelete(key, ent)
		return ent.err
	}
	*v = ent.value.(T)
	return nil
}

// MustLoad is like Load but panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// LoadEnv reads the given .env files into the process environment. Variables
// already set are left untouched. Call it before the first Load.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// Reset drops every cached configuration. Intended for tests.
func Reset() {
	cache.Clear()
}
