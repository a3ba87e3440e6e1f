package utils

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Table is one top-level TOML table read without a schema. Lookups on a
// missing (nil) table simply find nothing.
type Table map[string]any

// DecodeTOML strictly decodes the TOML file at path into v.
func DecodeTOML(path string, v any) error {
	md, err := toml.DecodeFile(path, v)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if extra := md.Undecoded(); len(extra) > 0 {
		log.Debugf("Ignoring unknown keys in %s: %v", path, extra)
	}
	return nil
}

// ReadTables decodes the file at path loosely and returns its top-level
// tables by name, so that well-typed values survive a file that does not
// match the struct it was meant for.
func ReadTables(path string) (map[string]Table, error) {
	var raw map[string]any
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("read tables from %s: %w", path, err)
	}

	tables := make(map[string]Table, len(raw))
	for name, v := range raw {
		if m, ok := v.(map[string]any); ok {
			tables[name] = m
		}
	}
	return tables, nil
}

// Int returns key as an int. TOML integers always decode as int64.
func (t Table) Int(key string) (int, bool) {
	v, ok := get[int64](t, key)
	return int(v), ok
}

// Bool returns key as a bool.
func (t Table) Bool(key string) (bool, bool) {
	return get[bool](t, key)
}

// Str returns key as a string.
func (t Table) Str(key string) (string, bool) {
	return get[string](t, key)
}

// get returns t[key] when it holds a T, warning about a value of another type.
func get[T any](t Table, key string) (T, bool) {
	raw, present := t[key]
	v, ok := raw.(T)
	if present && !ok {
		log.Warnf("Ignoring %q: want %T, got %T", key, v, raw)
	}
	return v, ok
}
