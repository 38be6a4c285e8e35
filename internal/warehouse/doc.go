// Package warehouse connects to the warehouse and merges staged artifacts
// into a target table.
//
// A load runs in one transaction:
//
//  1. empty the stage table <target>_stage
//  2. bulk-load every artifact into the stage table
//  3. insert stage rows whose (date, currency_from, currency_to) key is
//     absent from the target; existing target rows are never updated
//  4. commit
//
// Any failure rolls the transaction back, so the target and stage tables
// are left exactly as they were. Re-running a load with the same artifacts
// inserts nothing.
//
// SQL differences between Amazon Redshift and PostgreSQL are isolated in
// Dialect. Connecting is retried on transient errors; statements inside the
// transaction are not.
package warehouse
