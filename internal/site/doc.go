// Package site models the navigation and page metadata of a documentation
// site: the navbar, route-prefixed sidebars, page routes derived from
// markdown paths and the view handed to the page layout.
package site
