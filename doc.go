// Package tabq is an embeddable analytical query evaluation engine.
//
// It executes the recurring analytical patterns — grouped aggregation,
// window functions with explicit frames, left-outer and anti joins,
// recursive hierarchy traversal, and top-K-per-partition selection —
// over typed in-memory tables, without a SQL parser or external
// database. Callers build schema-validated tables, chain engine steps
// the way CTE stages chain, and hand the finished table to a renderer
// or a parquet writer.
//
// Packages:
//
//   - types:     the tagged scalar value model with SQL null semantics
//   - table:     schemas, rows, and schema-validated table builders
//   - engine:    the evaluation core and pipeline orchestrator
//   - render:    text and CSV presentation of finished tables
//   - parquetio: parquet ingestion and egress
package tabq
