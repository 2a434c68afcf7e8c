// Package model defines the types shared by the scan pipeline: the repository
// references produced by organization listing and the per-repository records
// produced by a scan.
package model

// Documentation files fetched for every repository, in source order.
const (
	IndexFile   = "index.md"
	InfoFile    = "info.md"
	LeadersFile = "leaders.md"
)

// RepositoryRef identifies one scan target. It is created by organization
// listing and never modified afterwards.
type RepositoryRef struct {
	Owner    string `json:"owner"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
}

// FullName returns the "owner/name" form of the reference.
func (r RepositoryRef) FullName() string { return r.Owner + "/" + r.Name }

// Record is the normalized result of scanning one repository.
//
// SourceFiles lists the documents that were fetched successfully, in the
// order index.md, info.md, leaders.md. FrontMatter holds the YAML front matter
// of index.md and Sidebar the merged fields extracted from the sidebar files.
//
// A Record is not modified after creation, except for Archived, which is
// refreshed from the live listing whenever the record is served from cache.
type Record struct {
	Repo        string         `json:"repo"`
	SourceFiles []string       `json:"source_files"`
	FrontMatter map[string]any `json:"metadata"`
	Sidebar     map[string]any `json:"sidebar_metadata"`
	Archived    bool           `json:"archived"`
}

// NewRecord returns an empty record for ref with non-nil collections.
func NewRecord(ref RepositoryRef) *Record {
	return &Record{
		Repo:        ref.FullName(),
		SourceFiles: []string{},
		FrontMatter: map[string]any{},
		Sidebar:     map[string]any{},
		Archived:    ref.Archived,
	}
}

// Normalize replaces nil collections with empty ones. Records decoded from
// older cache entries may carry nulls.
func (r *Record) Normalize() {
	if r.SourceFiles == nil {
		r.SourceFiles = []string{}
	}
	if r.FrontMatter == nil {
		r.FrontMatter = map[string]any{}
	}
	if r.Sidebar == nil {
		r.Sidebar = map[string]any{}
	}
}
