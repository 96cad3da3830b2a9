package database

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"
)

// foldFunc is the SQLite function registered for case-insensitive search.
// SQLite's built-in LOWER only folds ASCII.
const foldFunc = "lawsite_fold"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case nil:
			return nil, nil
		case string:
			return Fold(v), nil
		case []byte:
			return Fold(string(v)), nil
		default:
			return Fold(fmt.Sprint(v)), nil
		}
	})
}

// turkishI maps the Turkish dotless and dotted i forms onto a plain i so
// that "AĞIR", "ağır" and "Ağir" all fold alike.
var turkishI = strings.NewReplacer("ı", "i", "i\u0307", "i")

// Fold normalizes text for case-insensitive matching. Search terms and
// searched columns must go through the same fold.
func Fold(s string) string {
	return turkishI.Replace(strings.ToLower(s))
}

// fold wraps a column expression in the dialect's case folding.
func (d Dialect) fold(expr string) string {
	if d == Postgres {
		return "TRANSLATE(LOWER(" + expr + "), 'ı', 'i')"
	}
	return foldFunc + "(" + expr + ")"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike quotes LIKE wildcards so a search term matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
