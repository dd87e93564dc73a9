// Package store provides the document store backends. Every backend keeps
// whole JSON documents per collection and applies the same client-side
// filter matching, so services behave identically no matter which backend
// the process was started with.
package store

import (
	"fmt"

	"musicee/domain"
)

// keyFields names the document field that acts as the primary key of
// each collection.
var keyFields = map[string]string{
	domain.ColUsers:  "username",
	domain.ColTracks: "track_id",
}

// docKey extracts the primary key value from a decoded document.
func docKey(collection string, doc map[string]any) (string, error) {
	field, ok := keyFields[collection]
	if !ok {
		return "", fmt.Errorf("store: unknown collection %q", collection)
	}
	key, ok := doc[field].(string)
	if !ok || key == "" {
		return "", fmt.Errorf("store: document in %q has no %s", collection, field)
	}
	return key, nil
}

// matches reports whether a decoded document satisfies the filter.
// A document field that is an array matches when it contains the wanted
// value, everything else is plain equality.
func matches(doc map[string]any, filter domain.Filter) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok {
			return false
		}
		if arr, ok := got.([]any); ok {
			if !contains(arr, want) {
				return false
			}
			continue
		}
		if !equal(got, want) {
			return false
		}
	}
	return true
}

func contains(arr []any, want any) bool {
	for _, v := range arr {
		if equal(v, want) {
			return true
		}
	}
	return false
}

// equal compares a decoded JSON value against a filter value. Numbers
// decode as float64, so numeric filter values are compared as floats.
func equal(got, want any) bool {
	gf, gok := toFloat(got)
	wf, wok := toFloat(want)
	if gok || wok {
		return gok && wok && gf == wf
	}
	return got == want
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// applyPatch overwrites the named top-level fields of a decoded document.
func applyPatch(doc map[string]any, patch domain.Filter) {
	for field, value := range patch {
		doc[field] = value
	}
}
