package validation

import (
	"errors"
	"strings"
	"testing"
)

const redirectSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "policy": {"enum": ["exact", "trailing-slash"]},
    "status_code": {"type": "integer", "minimum": 300, "maximum": 399},
    "entries": {"type": "object", "additionalProperties": {"type": "string"}}
  },
  "additionalProperties": false
}`

func TestSchemaValidateAcceptsValidPayload(t *testing.T) {
	schema, err := Compile("redirects.json", []byte(redirectSchema))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	payload := map[string]any{
		"policy":      "exact",
		"status_code": 302,
		"entries":     map[string]any{"/old.html": "https://example.com/new"},
	}
	if err := schema.Validate(payload); err != nil {
		t.Fatalf("expected payload to validate, got %v", err)
	}
}

func TestSchemaValidateReportsIssues(t *testing.T) {
	schema := MustCompile("redirects.json", []byte(redirectSchema))

	err := schema.Validate(map[string]any{
		"policy":  "fuzzy",
		"entries": map[string]any{"/old.html": 42},
		"extra":   true,
	})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}

	issues := Issues(err)
	if len(issues) < 3 {
		t.Fatalf("expected an issue per violation, got %#v", issues)
	}
	joined := err.Error()
	for _, location := range []string{"#/policy", "#/entries/~1old.html"} {
		if !strings.Contains(joined, location) {
			t.Fatalf("expected %s in %q", location, joined)
		}
	}
}

func TestCompileRejectsInvalidSchema(t *testing.T) {
	_, err := Compile("broken.json", []byte(`{"type": 12}`))
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestIssuesFallsBackToMessage(t *testing.T) {
	issues := Issues(errors.New("boom"))
	if len(issues) != 1 || issues[0].Message != "boom" {
		t.Fatalf("unexpected issues %#v", issues)
	}
	if Issues(nil) != nil {
		t.Fatal("expected nil issues for nil error")
	}
}
