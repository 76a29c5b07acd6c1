// Package testsupport loads test fixtures stored under testdata.
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// LoadFixture reads testdata/<elem...> relative to the calling package.
func LoadFixture(tb testing.TB, elem ...string) []byte {
	tb.Helper()
	path := filepath.Join(append([]string{"testdata"}, elem...)...)
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}

// LoadJSON decodes a JSON fixture into v.
func LoadJSON(tb testing.TB, v any, elem ...string) {
	tb.Helper()
	if err := json.Unmarshal(LoadFixture(tb, elem...), v); err != nil {
		tb.Fatalf("decode fixture %s: %v", filepath.Join(elem...), err)
	}
}
