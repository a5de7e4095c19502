package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

const (
	CollectionCustomers = "customers"
	CollectionUsers     = "users"
)

// Record is a schema-less document held by the record store.
// The "id" key is owned by the store.
type Record map[string]any

// ID returns the record id, accepting the numeric shapes produced by JSON decoding.
func (r Record) ID() (int64, bool) {
	switch v := r["id"].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge copies every field of patch except "id" into the record.
func (r Record) Merge(patch Record) {
	for k, v := range patch {
		if k == "id" {
			continue
		}
		r[k] = v
	}
}

// Matches reports whether every filter key equals the record's field rendered as text.
func (r Record) Matches(filters map[string]string) bool {
	for k, want := range filters {
		v, ok := r[k]
		if !ok {
			return false
		}
		if k == "id" {
			id, ok := r.ID()
			if !ok || strconv.FormatInt(id, 10) != want {
				return false
			}
			continue
		}
		if fmt.Sprint(v) != want {
			return false
		}
	}
	return true
}
