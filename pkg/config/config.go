// Package config loads per-package Config structs from environment variables.
//
// Each unique configuration type is parsed once per process and cached; a
// local .env file is loaded best-effort before the first parse so development
// setups need no exported environment.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrParsingConfig   = errors.New("failed to parse environment variables into config")
	ErrConfigNotLoaded = errors.New("configuration has not been loaded")
	ErrNilPointer      = errors.New("nil pointer provided to config loader")
)

type cache struct {
	mu     sync.RWMutex
	values map[string]any
	onces  map[string]*sync.Once
}

var (
	global = &cache{
		values: make(map[string]any),
		onces:  make(map[string]*sync.Once),
	}

	dotenvOnce sync.Once
)

// Load parses environment variables into v based on its `env` tags. The
// first call per type does the parse; later calls return the cached value.
func Load[T any](v *T) error {
	dotenvOnce.Do(func() {
		// Missing .env is fine.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	key := typeName[T]()

	global.mu.RLock()
	if cached, ok := global.values[key]; ok {
		*v = cached.(T)
		global.mu.RUnlock()
		return nil
	}
	global.mu.RUnlock()

	global.mu.Lock()
	once, ok := global.onces[key]
	if !ok {
		once = new(sync.Once)
		global.onces[key] = once
	}
	global.mu.Unlock()

	var parseErr error
	once.Do(func() {
		if err := env.Parse(v); err != nil {
			parseErr = errors.Join(ErrParsingConfig, err)
			return
		}
		global.mu.Lock()
		global.values[key] = *v
		global.mu.Unlock()
	})
	if parseErr != nil {
		return parseErr
	}

	global.mu.RLock()
	defer global.mu.RUnlock()
	if cached, ok := global.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	return ErrConfigNotLoaded
}

// MustLoad is Load that panics on failure; for configs the process cannot
// start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func typeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return t.String()
}
