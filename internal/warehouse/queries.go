package warehouse

import "fmt"

const (
	sqlTruncate = `TRUNCATE TABLE %s`

	// Redshift TRUNCATE commits the enclosing transaction, so the stage
	// is emptied with DELETE there.
	sqlDeleteAll = `DELETE FROM %s`

	sqlRedshiftCopy = `COPY %s (%s)
FROM %s
%s
CSV
IGNOREHEADER 1
DATEFORMAT 'YYYY-MM-DD'%s`

	sqlRedshiftCopyCount = `SELECT pg_last_copy_count()`

	sqlPostgresCopy = `COPY %s (%s) FROM %s WITH (FORMAT csv, HEADER true, DELIMITER ',')`

	// sqlUpsert inserts stage rows whose key is not yet in the target.
	// Duplicate keys within the stage collapse to the row with the lowest close.
	sqlUpsert = `INSERT INTO %[1]s (%[3]s)
SELECT %[4]s
FROM (
    SELECT %[3]s,
           ROW_NUMBER() OVER (
               PARTITION BY "date", "currency_from", "currency_to"
               ORDER BY "close"
           ) AS rn
    FROM %[2]s
) s
LEFT JOIN %[1]s t
    ON t."date" = s."date"
   AND t."currency_from" = s."currency_from"
   AND t."currency_to" = s."currency_to"
WHERE s.rn = 1
  AND t."date" IS NULL`
)

func upsertSQL(t Table) string {
	return fmt.Sprintf(sqlUpsert, t.QuotedName(), t.QuotedStage(), columnList(""), columnList("s."))
}
