// Package jigsaw implements the resolver/configurator core of a modular
// software configuration system: given a catalog of installed module
// definitions and a set of root module queries, it produces a deterministic
// configuration of class-visibility contexts, or a precise failure.
//
// The package is organized the way gps organizes itself: a flat set of
// files at the package root carrying the data model (Version, ModuleID,
// ModuleInfo), the solving engine (Resolver, ServiceResolver), and the
// output stage (Configurator, Context, Configuration). The catalog
// storage variants and the caching decorator sit in the same package
// root; the trace logger lives in internal/log and the CLI in
// cmd/jigsawc.
package jigsaw
