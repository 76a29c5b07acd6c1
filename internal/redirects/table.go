package redirects

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrUnknownPolicy is returned when a policy name cannot be parsed.
	ErrUnknownPolicy = errors.New("redirects: unknown normalization policy")
	// ErrEmptySource is returned for table entries without a source path.
	ErrEmptySource = errors.New("redirects: source path is required")
	// ErrEmptyTarget is returned for table entries without a target.
	ErrEmptyTarget = errors.New("redirects: target is required")
	// ErrDuplicateSource is returned when two sources normalize to the same key.
	ErrDuplicateSource = errors.New("redirects: duplicate source after normalization")
)

// NormalizationPolicy controls how request paths are turned into table keys.
type NormalizationPolicy string

const (
	// PolicyExact matches the raw request path.
	PolicyExact NormalizationPolicy = "exact"
	// PolicyTrailingSlash appends "/" to paths that lack one, for tables
	// indexed with slash-terminated keys.
	PolicyTrailingSlash NormalizationPolicy = "trailing-slash"
)

// ParsePolicy maps a configured policy name onto a NormalizationPolicy.
// The empty string selects PolicyExact.
func ParsePolicy(name string) (NormalizationPolicy, error) {
	switch NormalizationPolicy(strings.ToLower(strings.TrimSpace(name))) {
	case "", PolicyExact:
		return PolicyExact, nil
	case PolicyTrailingSlash:
		return PolicyTrailingSlash, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Normalize returns the table key for path under p.
func (p NormalizationPolicy) Normalize(path string) string {
	if p == PolicyTrailingSlash && !strings.HasSuffix(path, "/") {
		return path + "/"
	}
	return path
}

// Table is an immutable source path to target mapping.
type Table struct {
	policy  NormalizationPolicy
	entries map[string]string
}

// NewTable copies entries into a Table. Source keys are normalized with
// policy so lookups stay idempotent; targets are stored verbatim.
func NewTable(entries map[string]string, policy NormalizationPolicy) (*Table, error) {
	if policy == "" {
		policy = PolicyExact
	}
	if _, err := ParsePolicy(string(policy)); err != nil {
		return nil, err
	}

	table := &Table{
		policy:  policy,
		entries: make(map[string]string, len(entries)),
	}
	for _, source := range slices.Sorted(maps.Keys(entries)) {
		target := entries[source]
		if strings.TrimSpace(source) == "" {
			return nil, ErrEmptySource
		}
		if strings.TrimSpace(target) == "" {
			return nil, fmt.Errorf("%w: %s", ErrEmptyTarget, source)
		}
		key := policy.Normalize(source)
		if _, exists := table.entries[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSource, key)
		}
		table.entries[key] = target
	}
	return table, nil
}

// MustTable is NewTable for static tables known to be valid. It panics on error.
func MustTable(entries map[string]string, policy NormalizationPolicy) *Table {
	table, err := NewTable(entries, policy)
	if err != nil {
		panic(err)
	}
	return table
}

// Policy reports the normalization policy the table was built with.
func (t *Table) Policy() NormalizationPolicy {
	if t == nil {
		return PolicyExact
	}
	return t.policy
}

// Lookup normalizes path and returns the configured target.
func (t *Table) Lookup(path string) (string, bool) {
	if t == nil {
		return "", false
	}
	target, ok := t.entries[t.policy.Normalize(path)]
	return target, ok
}

// Len reports the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the table contents keyed by normalized source.
func (t *Table) Entries() map[string]string {
	if t == nil {
		return map[string]string{}
	}
	return maps.Clone(t.entries)
}
