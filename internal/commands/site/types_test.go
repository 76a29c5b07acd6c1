package sitecmd

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func TestBuildSiteCommandValidate(t *testing.T) {
	cases := []struct {
		name  string
		paths []string
		code  string
	}{
		{name: "no paths"},
		{name: "markdown paths", paths: []string{"README.md", "/guide/models.MD"}},
		{name: "empty path", paths: []string{" "}, code: "docsite.site.build.path_empty"},
		{name: "not markdown", paths: []string{"guide/index.html"}, code: "docsite.site.build.path_not_markdown"},
		{name: "escapes root", paths: []string{"guide/../../x.md"}, code: "docsite.site.build.path_outside_root"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := BuildSiteCommand{Paths: tc.paths}.Validate()
			if tc.code == "" {
				if err != nil {
					t.Fatalf("expected valid command, got %v", err)
				}
				return
			}
			var errs validation.Errors
			if !errors.As(err, &errs) {
				t.Fatalf("expected validation.Errors, got %v", err)
			}
			var verr validation.Error
			if !errors.As(errs["paths"], &verr) || verr.Code() != tc.code {
				t.Fatalf("expected code %s, got %v", tc.code, errs["paths"])
			}
		})
	}
}

func TestDiffSiteCommandUsesOwnCodes(t *testing.T) {
	err := DiffSiteCommand{Paths: []string{"notes.txt"}}.Validate()
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation.Errors, got %v", err)
	}
	var verr validation.Error
	if !errors.As(errs["paths"], &verr) || verr.Code() != "docsite.site.diff.path_not_markdown" {
		t.Fatalf("unexpected error %v", errs["paths"])
	}
}

func TestResolveRedirectCommandValidate(t *testing.T) {
	if err := (ResolveRedirectCommand{Path: "/treemux/json-rest-api.html"}).Validate(); err != nil {
		t.Fatalf("expected valid path, got %v", err)
	}
	if err := (ResolveRedirectCommand{}).Validate(); err == nil {
		t.Fatal("expected required error")
	}
	if err := (ResolveRedirectCommand{Path: "treemux/json-rest-api.html"}).Validate(); err == nil {
		t.Fatal("expected relative path to be rejected")
	}
}
