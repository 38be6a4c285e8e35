// Package pipeline runs one end-to-end load: read every worksheet, stage
// the rows as CSV artifacts, and merge them into the warehouse.
//
// Stages run strictly in sequence and a failure in any of them ends the
// run. Nothing is retried at this level and nothing is compensated:
// artifacts written before a failure are left in place and are replaced
// by the next run.
package pipeline
