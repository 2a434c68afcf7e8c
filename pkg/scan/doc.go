// Package scan turns repository references into metadata records.
//
// A [Scanner] handles one repository: it serves the record from the cache
// when a fresh entry exists, otherwise it fetches the documentation files,
// extracts metadata and writes the new record back. A [Runner] fans a
// Scanner out over many repositories with a bounded worker pool and returns
// the records in input order once every scan has finished.
//
// Scans never fail. A repository whose documents are all missing still
// produces a record, with empty metadata.
package scan
