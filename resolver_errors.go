package jigsaw

import (
	"fmt"
	"strings"
)

// Chain is the dependent path that led to a resolution failure, outermost
// root first, for diagnostic messages.
type Chain []ModuleName

func (c Chain) String() string {
	names := make([]string, len(c))
	for i, n := range c {
		names[i] = string(n)
	}
	return strings.Join(names, " -> ")
}

// ModuleNotFoundError is returned when a non-optional ViewDependence (or
// root query) matches no catalog entry at all.
type ModuleNotFoundError struct {
	Query ModuleIDQuery
	Chain Chain
}

func (e *ModuleNotFoundError) Error() string {
	if len(e.Chain) == 0 {
		return fmt.Sprintf("jigsaw: no module satisfies root query %s", e.Query)
	}
	return fmt.Sprintf("jigsaw: no module satisfies %s (required by %s)", e.Query, e.Chain)
}

func (e *ModuleNotFoundError) traceString() string {
	return fmt.Sprintf("not found: %s via %s", e.Query, e.Chain)
}

// VersionConflictError is returned when a logical name is already bound to
// a ModuleId that fails a newly encountered VersionQuery for the same name.
type VersionConflictError struct {
	Name     ModuleName
	Existing ModuleID
	Query    ModuleIDQuery
	Chain    Chain
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("jigsaw: %s is bound to %s, which does not satisfy %s (required by %s)",
		e.Name, e.Existing, e.Query, e.Chain)
}

func (e *VersionConflictError) traceString() string {
	return fmt.Sprintf("version conflict: %s bound to %s, wanted %s via %s", e.Name, e.Existing, e.Query, e.Chain)
}

// PermitsViolationError is returned when a dependent requires a view that
// restricts its dependents via `permits` and the dependent is not named.
type PermitsViolationError struct {
	Dependent ModuleName
	Target    ModuleID
	View      ModuleName
	Chain     Chain
}

func (e *PermitsViolationError) Error() string {
	return fmt.Sprintf("jigsaw: %s does not permit %s (required by %s)", e.Target, e.Dependent, e.Chain)
}

func (e *PermitsViolationError) traceString() string {
	return fmt.Sprintf("permits violation: %s/%s rejects %s via %s", e.Target, e.View, e.Dependent, e.Chain)
}

// DuplicateClassError is returned by the Configurator when two modules
// merged into the same Context declare the same class name.
type DuplicateClassError struct {
	Context string
	Class   string
	First   ModuleID
	Second  ModuleID
}

func (e *DuplicateClassError) Error() string {
	return fmt.Sprintf("jigsaw: context %q: class %s declared by both %s and %s", e.Context, e.Class, e.First, e.Second)
}

func (e *DuplicateClassError) traceString() string {
	return fmt.Sprintf("duplicate class: %s in %q (%s, %s)", e.Class, e.Context, e.First, e.Second)
}

// DuplicateExportedPackageError is returned by the Configurator when two
// distinct contexts visible to the same remote dependent both export the
// same package name.
type DuplicateExportedPackageError struct {
	Package string
	First   string
	Second  string
}

func (e *DuplicateExportedPackageError) Error() string {
	return fmt.Sprintf("jigsaw: package %s is exported by both context %q and %q", e.Package, e.First, e.Second)
}

func (e *DuplicateExportedPackageError) traceString() string {
	return fmt.Sprintf("duplicate exported package: %s (%q, %q)", e.Package, e.First, e.Second)
}

// CyclePlaceholderError is reserved for a requires-local cycle that cannot
// be partitioned into a single Context; the module-pass algorithm here
// never constructs one, since local edges are
// resolved as plain graph edges and partitioned after the fact by the
// Configurator, which treats cycles as ordinary same-context membership
// rather than an error. Kept so callers can type-switch on the full
// documented error taxonomy without a missing case.
type CyclePlaceholderError struct {
	Names []ModuleName
}

func (e *CyclePlaceholderError) Error() string {
	names := make([]string, len(e.Names))
	for i, n := range e.Names {
		names[i] = string(n)
	}
	return fmt.Sprintf("jigsaw: unresolvable local cycle: %s", strings.Join(names, " -> "))
}

func (e *CyclePlaceholderError) traceString() string {
	return e.Error()
}
