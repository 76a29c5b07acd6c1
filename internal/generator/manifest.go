package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	manifestFileName    = ".docsite-manifest.json"
	manifestFileVersion = 1
)

// buildManifest records what the last build wrote.
type buildManifest struct {
	Version     int                `json:"version"`
	BuildID     string             `json:"build_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Pages       []manifestPage     `json:"pages"`
	Redirects   []manifestRedirect `json:"redirects,omitempty"`
}

type manifestPage struct {
	Source       string    `json:"source"`
	Route        string    `json:"route"`
	Output       string    `json:"output"`
	Checksum     string    `json:"checksum"`
	LastModified time.Time `json:"last_modified"`
}

type manifestRedirect struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Output string `json:"output"`
}

func newBuildManifest(buildID uuid.UUID, generatedAt time.Time, pages []RenderedPage, redirects []manifestRedirect) *buildManifest {
	m := &buildManifest{
		Version:     manifestFileVersion,
		BuildID:     buildID.String(),
		GeneratedAt: generatedAt.UTC(),
		Pages:       make([]manifestPage, 0, len(pages)),
		Redirects:   append([]manifestRedirect(nil), redirects...),
	}
	for _, page := range pages {
		m.Pages = append(m.Pages, manifestPage{
			Source:       page.SourcePath,
			Route:        page.Route,
			Output:       page.Output,
			Checksum:     page.Checksum,
			LastModified: page.LastModified,
		})
	}
	// Stable ordering for deterministic output.
	sort.Slice(m.Pages, func(i, j int) bool { return m.Pages[i].Source < m.Pages[j].Source })
	sort.Slice(m.Redirects, func(i, j int) bool { return m.Redirects[i].Source < m.Redirects[j].Source })
	return m
}

func (m *buildManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.MarshalIndent(m, "", "  ")
}

func parseManifest(data []byte) (*buildManifest, error) {
	var manifest buildManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	if manifest.Version == 0 {
		manifest.Version = manifestFileVersion
	}
	return &manifest, nil
}
