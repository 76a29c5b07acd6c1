package sitecmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-docsite/internal/generator"
	"github.com/goliatone/go-docsite/internal/redirects"
	"github.com/goliatone/go-docsite/pkg/testsupport"
)

type fakeGeneratorService struct {
	buildFunc func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error)
	cleanFunc func(ctx context.Context) error
}

func (f *fakeGeneratorService) Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	if f.buildFunc == nil {
		return &generator.BuildResult{}, nil
	}
	return f.buildFunc(ctx, opts)
}

func (f *fakeGeneratorService) Clean(ctx context.Context) error {
	if f.cleanFunc == nil {
		return nil
	}
	return f.cleanFunc(ctx)
}

func loadBuildFixture(t *testing.T, name string) BuildSiteCommand {
	t.Helper()
	var cmd BuildSiteCommand
	testsupport.LoadJSON(t, &cmd, name)
	return cmd
}

func TestBuildSiteHandlerForwardsNormalisedPaths(t *testing.T) {
	cmd := loadBuildFixture(t, "build_paths.json")

	var captured generator.BuildOptions
	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			captured = opts
			return &generator.BuildResult{PagesBuilt: 2}, nil
		},
	}

	var envelope ResultEnvelope
	cmd.ResultCallback = func(env ResultEnvelope) { envelope = env }

	if err := NewBuildSiteHandler(svc, nil).Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute build: %v", err)
	}
	if len(captured.Paths) != 2 || captured.Paths[0] != "guide/models.md" || captured.Paths[1] != "guide/queries.md" {
		t.Fatalf("expected de-duplicated relative paths, got %v", captured.Paths)
	}
	if captured.DryRun {
		t.Fatal("expected DryRun false")
	}
	if envelope.Result == nil || envelope.Result.PagesBuilt != 2 {
		t.Fatalf("expected build result in callback, got %#v", envelope.Result)
	}
	if envelope.Metadata["operation"] != "build" {
		t.Fatalf("expected operation build, got %v", envelope.Metadata["operation"])
	}
}

func TestBuildSiteHandlerReportsPartialResultsOnError(t *testing.T) {
	buildErr := errors.New("render guide/models.md")
	svc := &fakeGeneratorService{
		buildFunc: func(context.Context, generator.BuildOptions) (*generator.BuildResult, error) {
			return &generator.BuildResult{PagesBuilt: 1, Errors: []error{buildErr}}, buildErr
		},
	}

	var envelope ResultEnvelope
	err := NewBuildSiteHandler(svc, nil).Execute(context.Background(), BuildSiteCommand{
		ResultCallback: func(env ResultEnvelope) { envelope = env },
	})
	if !errors.Is(err, buildErr) {
		t.Fatalf("expected build error, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if envelope.Result == nil || envelope.Result.PagesBuilt != 1 {
		t.Fatalf("expected partial result, got %#v", envelope.Result)
	}
}

func TestBuildSiteHandlerRejectsInvalidPaths(t *testing.T) {
	called := false
	svc := &fakeGeneratorService{
		buildFunc: func(context.Context, generator.BuildOptions) (*generator.BuildResult, error) {
			called = true
			return nil, nil
		},
	}

	err := NewBuildSiteHandler(svc, nil).Execute(context.Background(), BuildSiteCommand{Paths: []string{"../secrets.md"}})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected build not to run")
	}
}

func TestDiffSiteHandlerForcesDryRun(t *testing.T) {
	var captured generator.BuildOptions
	svc := &fakeGeneratorService{
		buildFunc: func(_ context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			captured = opts
			return &generator.BuildResult{DryRun: true}, nil
		},
	}

	var operation any
	err := NewDiffSiteHandler(svc, nil).Execute(context.Background(), DiffSiteCommand{
		ResultCallback: func(env ResultEnvelope) { operation = env.Metadata["operation"] },
	})
	if err != nil {
		t.Fatalf("execute diff: %v", err)
	}
	if !captured.DryRun {
		t.Fatal("expected diff to run as dry run")
	}
	if operation != "diff" {
		t.Fatalf("expected operation diff, got %v", operation)
	}
}

func TestCleanSiteHandler(t *testing.T) {
	cleaned := false
	svc := &fakeGeneratorService{cleanFunc: func(context.Context) error {
		cleaned = true
		return nil
	}}

	if err := NewCleanSiteHandler(svc, nil).Execute(context.Background(), CleanSiteCommand{}); err != nil {
		t.Fatalf("execute clean: %v", err)
	}
	if !cleaned {
		t.Fatal("expected Clean to be called")
	}
}

func TestHandlersWithoutGenerator(t *testing.T) {
	err := NewCleanSiteHandler(nil, nil).Execute(context.Background(), CleanSiteCommand{})
	if !errors.Is(err, ErrGeneratorUnavailable) {
		t.Fatalf("expected ErrGeneratorUnavailable, got %v", err)
	}
	err = NewResolveRedirectHandler(nil, nil).Execute(context.Background(), ResolveRedirectCommand{Path: "/a.html"})
	if !errors.Is(err, ErrResolverUnavailable) {
		t.Fatalf("expected ErrResolverUnavailable, got %v", err)
	}
}

func TestResolveRedirectHandler(t *testing.T) {
	resolver := redirects.NewResolver(redirects.MustTable(map[string]string{
		"/postgres/zfs-aws-ebs.html": "/postgres/tuning-zfs-aws-ebs.html",
	}, redirects.PolicyExact))
	handler := NewResolveRedirectHandler(resolver, nil)

	decisions := map[string]redirects.Decision{}
	record := func(path string, decision redirects.Decision) { decisions[path] = decision }

	for _, path := range []string{"/postgres/zfs-aws-ebs.html", "/guide/"} {
		if err := handler.Execute(context.Background(), ResolveRedirectCommand{Path: path, DecisionCallback: record}); err != nil {
			t.Fatalf("resolve %s: %v", path, err)
		}
	}

	hit := decisions["/postgres/zfs-aws-ebs.html"]
	if hit.Action != redirects.ActionFullLoad || hit.Target != "/postgres/tuning-zfs-aws-ebs.html" {
		t.Fatalf("unexpected decision %#v", hit)
	}
	if !decisions["/guide/"].Continue() {
		t.Fatalf("expected continue for unmatched path, got %#v", decisions["/guide/"])
	}

	err := handler.Execute(context.Background(), ResolveRedirectCommand{Path: "postgres/zfs-aws-ebs.html"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for relative path, got %v", err)
	}
}
