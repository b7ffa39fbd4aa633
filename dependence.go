package jigsaw

// DepModifiers is a bitset of the modifiers a dependence edge can carry.
// Module dependences may carry any combination of Public, Optional, and
// Local; service dependences may only carry Optional.
type DepModifiers uint8

const (
	// ModPublic re-exports visibility of the dependee's exported packages
	// to the dependent's own dependents once satisfied.
	ModPublic DepModifiers = 1 << iota
	// ModOptional means that when nothing can satisfy the edge (no
	// candidate, or every candidate's own transitive deps end in a missing
	// module) resolution does not fail - the edge is simply treated as
	// unsatisfied. A version conflict or permits violation on the edge
	// still fails resolution.
	ModOptional
	// ModLocal means the dependee must be merged into the same Context as
	// the dependent, subject to a permits check.
	ModLocal
)

// Has reports whether m includes flag.
func (m DepModifiers) Has(flag DepModifiers) bool {
	return m&flag != 0
}

func (m DepModifiers) String() string {
	s := ""
	if m.Has(ModPublic) {
		s += "public "
	}
	if m.Has(ModOptional) {
		s += "optional "
	}
	if m.Has(ModLocal) {
		s += "local "
	}
	if s == "" {
		return "(none)"
	}
	return s[:len(s)-1]
}

// ViewDependence is a module's `requires` edge onto another module,
// identified by a ModuleIDQuery that may resolve against a module's
// primary id, a named view, or an alias.
type ViewDependence struct {
	Mods  DepModifiers
	Query ModuleIDQuery
}

// ServiceDependence is a module's `requires service` declaration: intent
// to consume implementations of a named service interface at runtime,
// resolved in the second, service-discovery pass. The only meaningful
// modifier is ModOptional.
type ServiceDependence struct {
	Mods    DepModifiers
	Service string
}
