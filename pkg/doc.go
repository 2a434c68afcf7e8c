// Package pkg holds the libraries behind repometa, a scraper that collects
// project metadata from the documentation files of GitHub organizations.
//
// # Overview
//
// The packages are layered bottom-up:
//
//  1. [model] - Repository references and scan records
//  2. [errors] - Coded errors and input validation
//  3. [integrations] - HTTP plumbing and the GitHub client (raw files, org listing)
//  4. [extract] - Front-matter parsing and sidebar heuristics
//  5. [cache] - Per-repository record cache (file, Redis, null)
//  6. [scan] - Per-repository scanner and the concurrent runner
//  7. [report] - Aggregation and CSV/JSON/Markdown writers
//  8. [config] - Defaults, TOML file, .env and environment
//  9. [observability] - Scan event hooks and counters
//
// # Data Flow
//
//	GitHub org listing
//	         ↓
//	    [scan.Runner] (bounded worker pool)
//	         ↓
//	    [scan.Scanner] (cache lookup, raw fetch, [extract])
//	         ↓
//	    [report.Aggregate]
//	         ↓
//	    metadata.csv, metadata.json, metadata_summary.md, metadata_matrix.*
package pkg
