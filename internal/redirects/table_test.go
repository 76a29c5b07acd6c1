package redirects

import (
	"errors"
	"testing"
)

func TestParsePolicy(t *testing.T) {
	cases := []struct {
		in      string
		want    NormalizationPolicy
		wantErr bool
	}{
		{in: "", want: PolicyExact},
		{in: "exact", want: PolicyExact},
		{in: " Trailing-Slash ", want: PolicyTrailingSlash},
		{in: "regex", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParsePolicy(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownPolicy) {
				t.Fatalf("ParsePolicy(%q): expected ErrUnknownPolicy, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParsePolicy(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePolicy(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewTableRejectsInvalidEntries(t *testing.T) {
	if _, err := NewTable(map[string]string{"": "/x"}, PolicyExact); !errors.Is(err, ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
	if _, err := NewTable(map[string]string{"/a": " "}, PolicyExact); !errors.Is(err, ErrEmptyTarget) {
		t.Fatalf("expected ErrEmptyTarget, got %v", err)
	}
	_, err := NewTable(map[string]string{"/a": "/x", "/a/": "/y"}, PolicyTrailingSlash)
	if !errors.Is(err, ErrDuplicateSource) {
		t.Fatalf("expected ErrDuplicateSource, got %v", err)
	}
	if _, err := NewTable(nil, NormalizationPolicy("glob")); !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
}

func TestTableIsImmutable(t *testing.T) {
	entries := map[string]string{"/old.html": "/new.html"}
	table := MustTable(entries, PolicyExact)

	entries["/old.html"] = "/changed.html"
	entries["/added.html"] = "/x.html"

	if target, _ := table.Lookup("/old.html"); target != "/new.html" {
		t.Fatalf("expected table to keep its own copy, got %q", target)
	}
	if _, ok := table.Lookup("/added.html"); ok {
		t.Fatal("expected entries added after construction to be ignored")
	}

	snapshot := table.Entries()
	snapshot["/old.html"] = "/mutated.html"
	if target, _ := table.Lookup("/old.html"); target != "/new.html" {
		t.Fatalf("expected Entries to return a copy, got %q", target)
	}
}

func TestTableExactPolicyMatchesRawPath(t *testing.T) {
	table := MustTable(map[string]string{"/postgres/": "/postgres/index.html"}, PolicyExact)

	if _, ok := table.Lookup("/postgres"); ok {
		t.Fatal("exact policy must not add a trailing slash")
	}
	if _, ok := table.Lookup("/postgres/"); !ok {
		t.Fatal("expected exact match")
	}
}

func TestNilTable(t *testing.T) {
	var table *Table
	if _, ok := table.Lookup("/anything"); ok {
		t.Fatal("nil table must not match")
	}
	if table.Len() != 0 || table.Policy() != PolicyExact {
		t.Fatal("unexpected nil table state")
	}
}
