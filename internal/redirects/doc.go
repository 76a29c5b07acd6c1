// Package redirects resolves legacy documentation paths to their
// replacement targets before a navigation completes.
//
// A Table is built once from configuration and never mutated. A Resolver
// looks a request path up in the table under a NormalizationPolicy and
// returns a Decision: continue the navigation, or replace it with a full
// load of the configured target. Targets are used verbatim and never
// followed, so a target that is itself a table key does not chain.
//
// The same decision drives three surfaces: the BeforeResolve navigation
// hook, the HTTP Middleware used by the preview server, and the static
// redirect Stub pages written by the generator.
package redirects
