// Package stage serializes canonical rows into a CSV artifact and writes it
// to object storage.
//
// The artifact is UTF-8 with a header line
//
//	date,currency_from,currency_to,close
//
// followed by one "\n"-terminated line per row. Encoding is deterministic:
// the same rows always produce the same bytes, so re-staging an unchanged
// spreadsheet yields an identical artifact and identical SHA-256 digest.
package stage
