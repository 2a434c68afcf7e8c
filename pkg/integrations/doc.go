// Package integrations provides the shared HTTP plumbing for remote sources.
//
// # Overview
//
// The [Client] type issues GET requests with a fixed set of default headers
// and a bounded timeout, mapping HTTP statuses onto [ErrNotFound] and
// [ErrNetwork]. Source-specific clients live in subpackages:
//
//   - [github]: raw documentation files and organization listing
//
// # Failure Model
//
// Nothing here retries. Callers decide how a failed request degrades; the
// scan pipeline treats every failure as an absent document.
//
// [github]: github.com/matzehuels/repometa/pkg/integrations/github
package integrations
