// Package markdown loads documentation sources from disk and renders them to
// HTML with goldmark.
//
// Rendering runs in two stages. Include directives (!!!include(file.md)!!!)
// are expanded first, with the root directory for each document supplied by
// a RootDirFunc. The expanded source is then converted by GoldmarkParser,
// which adds slug-based heading anchors, hardens outbound links and can
// sanitise the resulting HTML.
package markdown
