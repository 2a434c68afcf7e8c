// Package report aggregates scan records into tabular outputs.
//
// [Aggregate] flattens every record into a row whose columns are the
// reserved fields (repo, source_file, archived) plus every front-matter and
// sidebar key. The column set is the sorted union over all rows, so it is
// only known once every record has been collected. From the rows it derives
// per-origin field counts and a presence matrix.
//
// # Artifacts
//
// [Report.WriteAll] writes five files into an output directory:
//
//   - metadata.csv: one row per repository, one column per field
//   - metadata.json: the same rows as a JSON array
//   - metadata_summary.md: field occurrence counts by origin
//   - metadata_matrix.csv: a check mark per repository and field
//   - metadata_matrix.json: the matrix as a JSON array
//
// The CSV and matrix files are skipped when there are no records.
package report
