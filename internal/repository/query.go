package repository

import (
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/autolease/internal/model"
)

// where accumulates AND-ed conditions with positional arguments.
type where struct {
	conds []string
	args  []any
}

// arg registers v and returns its placeholder.
func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) add(cond string) {
	w.conds = append(w.conds, cond)
}

// search adds an ILIKE match of term against any of cols.
func (w *where) search(term string, cols ...string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	p := w.arg("%" + escapeLike(term) + "%")
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " ILIKE " + p
	}
	w.add("(" + strings.Join(parts, " OR ") + ")")
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends LIMIT/OFFSET placeholders for p.
func (w *where) page(p model.Page) string {
	return fmt.Sprintf(" LIMIT %s OFFSET %s", w.arg(p.Size), w.arg(p.Offset()))
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// orderBy resolves s against the whitelist cols. Unknown keys sort by def.
// The id tiebreak keeps paging stable.
func orderBy(s model.Sort, cols map[string]string, def, id string) string {
	col, ok := cols[strings.ToLower(s.Key)]
	if !ok {
		col = def
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s %s", col, dir, id, dir)
}
