package listing

import (
	"strconv"
	"strings"
)

// Predicate is a conjunction of SQL conditions over the properties table aliased as p.
// Conditions use ? placeholders; Rebind converts them for drivers that need $n.
type Predicate struct {
	conds []string
	args  []any
}

// And returns a copy of p with cond appended.
func (p Predicate) And(cond string, args ...any) Predicate {
	out := Predicate{
		conds: make([]string, 0, len(p.conds)+1),
		args:  make([]any, 0, len(p.args)+len(args)),
	}
	out.conds = append(append(out.conds, p.conds...), cond)
	out.args = append(append(out.args, p.args...), args...)
	return out
}

// SQL returns the conditions joined with AND, or "" when unfiltered.
func (p Predicate) SQL() string {
	return strings.Join(p.conds, " AND ")
}

// Where returns " WHERE <conds>" or "" when unfiltered.
func (p Predicate) Where() string {
	if len(p.conds) == 0 {
		return ""
	}
	return " WHERE " + p.SQL()
}

func (p Predicate) Args() []any { return p.args }

func (p Predicate) Empty() bool { return len(p.conds) == 0 }

// Rebind replaces each ? with $1, $2, ... in order.
func Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
