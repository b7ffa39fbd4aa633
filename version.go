package jigsaw

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// versionSeparators are the characters that split a version string into
// components. Runs of digits and runs of letters are each their own
// component; a separator never survives into a component.
const versionSeparators = "._-+"

// component is one piece of a parsed Version: either a non-negative integer
// (a digit run) or an opaque string (a letter run).
type component struct {
	num    int64
	str    string
	isNum  bool
}

func (c component) compare(o component) int {
	switch {
	case c.isNum && o.isNum:
		switch {
		case c.num < o.num:
			return -1
		case c.num > o.num:
			return 1
		default:
			return 0
		}
	case c.isNum && !o.isNum:
		// Numeric compares less than string, by design: only a trailing
		// alphanumeric tail may mix the two kinds within one version.
		return -1
	case !c.isNum && o.isNum:
		return 1
	default:
		return strings.Compare(c.str, o.str)
	}
}

func (c component) isZero() bool {
	return c.isNum && c.num == 0
}

func (c component) String() string {
	if c.isNum {
		return strconv.FormatInt(c.num, 10)
	}
	return c.str
}

// Version is a dotted, alphanumeric version identifier, ordered
// component-wise: numeric components compare numerically, string
// components lexicographically, and trailing zero components are
// equivalent to their absence ("1.0" == "1" == "1.0.0").
//
// NoVersion is the sentinel "no version" - it is not the product of
// parsing any string, sorts before every concrete Version, and is what
// UnmarshalJSON decodes an empty string to. The zero Version{} is not the
// sentinel: IsNoVersion reports false for it.
//
// Version deliberately holds only the validated raw string, not a parsed
// component slice: ModuleId embeds Version and is used as a map key
// throughout the resolver and catalog, and a slice field would make it
// non-comparable. Components are re-split on demand in Compare instead.
type Version struct {
	raw  string
	none bool
}

// NoVersion is the sentinel representing the absence of a version. It
// compares less than any concrete Version, and equal to itself.
var NoVersion = Version{none: true}

// ParseVersion parses a dotted/alphanumeric version string. Empty strings,
// strings beginning with a separator, strings ending with a separator, and
// strings with two separators in a row are all rejected.
func ParseVersion(s string) (Version, error) {
	if _, err := parseComponents(s); err != nil {
		return Version{}, err
	}
	return Version{raw: s}, nil
}

// parseComponents splits s into its digit-run/letter-run components. It is
// called once by ParseVersion to validate a version string, and again on
// demand by Compare - s is always the raw string of an already-validated
// Version at that point, so the error return there is never non-nil.
func parseComponents(s string) ([]component, error) {
	if s == "" {
		return nil, errors.New("version: empty string is not a valid version")
	}
	if strings.ContainsRune(versionSeparators, rune(s[0])) {
		return nil, errors.Errorf("version %q: cannot begin with a separator", s)
	}
	if strings.ContainsRune(versionSeparators, rune(s[len(s)-1])) {
		return nil, errors.Errorf("version %q: cannot end with a separator", s)
	}

	var comps []component
	var cur strings.Builder
	var curIsDigit bool
	var haveCur bool

	flush := func() error {
		if !haveCur {
			return nil
		}
		tok := cur.String()
		if curIsDigit {
			n, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "version %q: bad numeric component %q", s, tok)
			}
			comps = append(comps, component{num: n, isNum: true})
		} else {
			comps = append(comps, component{str: tok})
		}
		cur.Reset()
		haveCur = false
		return nil
	}

	for _, r := range s {
		if strings.ContainsRune(versionSeparators, r) {
			if !haveCur {
				return nil, errors.Errorf("version %q: empty component between separators", s)
			}
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		isDigit := r >= '0' && r <= '9'
		if haveCur && isDigit != curIsDigit {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		curIsDigit = isDigit
		haveCur = true
		cur.WriteRune(r)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(comps) == 0 {
		return nil, errors.Errorf("version %q: no components found", s)
	}

	return comps, nil
}

// MustParseVersion is ParseVersion, panicking on error. Intended for tests
// and static fixture data.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsNoVersion reports whether v is the sentinel "no version" value.
func (v Version) IsNoVersion() bool {
	return v.none
}

// String renders the version as originally parsed, or "(no version)" for
// the sentinel.
func (v Version) String() string {
	if v.none {
		return "(no version)"
	}
	return v.raw
}

// Compare orders v relative to o: negative if v < o, zero if equal, positive
// if v > o. The sentinel NoVersion sorts before every concrete Version.
func (v Version) Compare(o Version) int {
	if v.none && o.none {
		return 0
	}
	if v.none {
		return -1
	}
	if o.none {
		return 1
	}

	// v.raw and o.raw were validated by ParseVersion; the error return
	// here cannot actually fire.
	vc, _ := parseComponents(v.raw)
	oc, _ := parseComponents(o.raw)

	n := len(vc)
	if len(oc) > n {
		n = len(oc)
	}

	for i := 0; i < n; i++ {
		a := zeroComponentAt(vc, i)
		b := zeroComponentAt(oc, i)
		if c := a.compare(b); c != 0 {
			return c
		}
	}
	return 0
}

// zeroComponentAt returns comp[i], or the implicit zero component ("0") if
// i is past the end of comp - this is what makes "1.0.0" == "1".
func zeroComponentAt(comp []component, i int) component {
	if i < len(comp) {
		return comp[i]
	}
	return component{isNum: true}
}

// Equal reports whether v and o denote the same version under trailing-zero
// equivalence.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

// Less reports whether v sorts strictly before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// MarshalJSON encodes v as its raw string, or "" for NoVersion. Version's
// fields are unexported (see the comment on the type), so the encoding/json
// default struct encoding would silently produce "{}" without this.
func (v Version) MarshalJSON() ([]byte, error) {
	if v.none {
		return json.Marshal("")
	}
	return json.Marshal(v.raw)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*v = NoVersion
		return nil
	}
	parsed, err := ParseVersion(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// QueryOp is the comparison operator of a VersionQuery.
type QueryOp int

const (
	// QueryAny matches every version, including NoVersion. It is the query
	// produced by parsing the empty string, and the query a nil constraint
	// denotes.
	QueryAny QueryOp = iota
	QueryEq
	QueryLt
	QueryLe
	QueryGt
	QueryGe
)

func (op QueryOp) String() string {
	switch op {
	case QueryAny:
		return ""
	case QueryEq:
		return "="
	case QueryLt:
		return "<"
	case QueryLe:
		return "<="
	case QueryGt:
		return ">"
	case QueryGe:
		return ">="
	default:
		return "?"
	}
}

// VersionQuery is a single version constraint: a comparison operator and
// (except for Any) a Version to compare against.
type VersionQuery struct {
	Op QueryOp
	V  Version
}

// AnyVersion is the query that matches every version.
var AnyVersion = VersionQuery{Op: QueryAny}

// ParseVersionQuery parses an optional leading operator in {=, <, <=, >,
// >=} followed by a version. An empty string is AnyVersion; a bare
// operator with no following version is rejected.
func ParseVersionQuery(s string) (VersionQuery, error) {
	if s == "" {
		return AnyVersion, nil
	}

	var op QueryOp
	var rest string
	switch {
	case strings.HasPrefix(s, "<="):
		op, rest = QueryLe, s[2:]
	case strings.HasPrefix(s, ">="):
		op, rest = QueryGe, s[2:]
	case strings.HasPrefix(s, "<"):
		op, rest = QueryLt, s[1:]
	case strings.HasPrefix(s, ">"):
		op, rest = QueryGt, s[1:]
	case strings.HasPrefix(s, "="):
		op, rest = QueryEq, s[1:]
	default:
		op, rest = QueryEq, s
	}

	if rest == "" {
		return VersionQuery{}, errors.Errorf("version query %q: operator %s given with no version", s, op)
	}

	v, err := ParseVersion(rest)
	if err != nil {
		return VersionQuery{}, errors.Wrapf(err, "version query %q", s)
	}
	return VersionQuery{Op: op, V: v}, nil
}

// MustParseVersionQuery is ParseVersionQuery, panicking on error.
func MustParseVersionQuery(s string) VersionQuery {
	q, err := ParseVersionQuery(s)
	if err != nil {
		panic(err)
	}
	return q
}

// Matches reports whether v satisfies the query.
func (q VersionQuery) Matches(v Version) bool {
	if q.Op == QueryAny {
		return true
	}
	c := v.Compare(q.V)
	switch q.Op {
	case QueryEq:
		return c == 0
	case QueryLt:
		return c < 0
	case QueryLe:
		return c <= 0
	case QueryGt:
		return c > 0
	case QueryGe:
		return c >= 0
	default:
		return false
	}
}

// String renders the query the way it would be parsed back, e.g. ">=1.2".
// AnyVersion renders as "*", which ParseVersionQuery does not read back as
// AnyVersion (the empty string is its parsed form).
func (q VersionQuery) String() string {
	if q.Op == QueryAny {
		return "*"
	}
	return q.Op.String() + q.V.String()
}
