package warehouse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/fxload/pkg/fxload"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Table is a validated target table together with its stage table.
type Table struct {
	Name  string
	Stage string
}

// ParseTable validates a "[schema.]table" name.
func ParseTable(name string) (Table, error) {
	if !tableNamePattern.MatchString(name) {
		return Table{}, fmt.Errorf("invalid table name %q: want [schema.]table using letters, digits and underscores", name)
	}
	return Table{Name: name, Stage: name + fxload.StageTableSuffix}, nil
}

// QuotedName returns the target table as a quoted SQL identifier.
func (t Table) QuotedName() string {
	return quoteIdent(t.Name)
}

// QuotedStage returns the stage table as a quoted SQL identifier.
func (t Table) QuotedStage() string {
	return quoteIdent(t.Stage)
}

func quoteIdent(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}

// quoteLiteral renders s as a single-quoted SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// columnList is the canonical column list, quoted, in artifact order.
func columnList(prefix string) string {
	cols := make([]string, len(fxload.CanonicalColumns))
	for i, c := range fxload.CanonicalColumns {
		cols[i] = prefix + quoteIdent(c)
	}
	return strings.Join(cols, ", ")
}
