package response

import (
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes handled by the translator.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// uniqueKeyDetail extracts the column list from a unique-violation
// detail line: `Key (a, b)=(x, y) already exists.`
var uniqueKeyDetail = regexp.MustCompile(`Key \(([^)]+)\)=`)

// translatePgError maps a database constraint violation to a
// human-readable message. The table is closed: unmatched codes fall
// through to a default, never an error.
func translatePgError(pgErr *pgconn.PgError) string {
	switch pgErr.Code {
	case pgUniqueViolation:
		if m := uniqueKeyDetail.FindStringSubmatch(pgErr.Detail); m != nil {
			fields := strings.ReplaceAll(m[1], `"`, "")
			return fields + " must be unique"
		}
		return "Unique constraint failed"
	case pgForeignKeyViolation:
		// A restricted delete reports the referencing side; a missing
		// parent row reports the insert/update side.
		if strings.Contains(pgErr.Detail, "is still referenced") {
			return "Delete operation failed. Record is being referenced by other records"
		}
		return "Foreign key constraint failed"
	default:
		return "Unknown error"
	}
}
