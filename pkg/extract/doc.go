// Package extract pulls structured metadata out of repository documentation.
//
// Two independent strategies are provided:
//
//   - [FrontMatter] parses the YAML block at the top of index.md
//   - [Sidebar] applies markdown heuristics ([Rules]) to info.md and leaders.md
//
// Both are total: malformed or unrecognized input yields an empty map, never
// an error. Callers combine the sidebar maps of several files with [Merge].
package extract
