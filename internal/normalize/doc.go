// Package normalize turns a raw worksheet table into canonical rows.
//
// A worksheet titled "EUR2USD" with columns Date and Close becomes rows of
// {date, "EUR", "USD", close}. Columns are matched case-insensitively and
// any column other than date and close is ignored. Rows are neither
// filtered nor deduplicated: one input row yields one canonical row.
//
// A single bad value aborts the whole worksheet with a SchemaError naming
// the row and value, so a partially converted worksheet is never staged.
package normalize
