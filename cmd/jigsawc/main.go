// Command jigsawc resolves a catalog of TOML module definitions against a
// set of root module queries and prints the resulting configuration, or
// the failure that prevented one from being built.
package main

import (
	"flag"
	"fmt"
	"os"

	jigsaw "github.com/heyunxia/openjdk-sub002"
	"github.com/heyunxia/openjdk-sub002/internal/log"
)

func main() {
	catalogPath := flag.String("catalog", "", "path to a TOML catalog snapshot file")
	baseModule := flag.String("base", "", "name of the module exempt from permits checks")
	dumpPath := flag.String("dump", "", "write the resolved configuration report to this path instead of stdout")
	trace := flag.Bool("trace", false, "log every resolver candidate attempt to stderr")
	flag.Parse()

	if *catalogPath == "" {
		fmt.Fprintln(os.Stderr, "jigsawc: -catalog is required")
		os.Exit(2)
	}
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "jigsawc: at least one root module query is required")
		os.Exit(2)
	}

	if err := run(*catalogPath, *baseModule, *dumpPath, *trace, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "jigsawc: %v\n", err)
		os.Exit(1)
	}
}

func run(catalogPath, baseModule, dumpPath string, trace bool, rootArgs []string) error {
	f, err := os.Open(catalogPath)
	if err != nil {
		return err
	}
	defer f.Close()

	catalog, err := jigsaw.LoadTOMLCatalog(f)
	if err != nil {
		return err
	}

	roots := make([]jigsaw.ModuleIDQuery, len(rootArgs))
	for i, a := range rootArgs {
		q, err := jigsaw.ParseModuleIDQuery(a)
		if err != nil {
			return err
		}
		roots[i] = q
	}

	var tracer *log.Logger
	if trace {
		tracer = log.New(os.Stderr)
	}

	resolver := &jigsaw.Resolver{Catalog: catalog, BaseModule: jigsaw.ModuleName(baseModule), Trace: tracer}
	resolution, err := resolver.Resolve(roots)
	if err != nil {
		return err
	}

	svcResolver := &jigsaw.ServiceResolver{Catalog: catalog, BaseModule: jigsaw.ModuleName(baseModule), Trace: tracer}
	extended, err := svcResolver.Resolve(resolution)
	if err != nil {
		return err
	}

	cfg, err := jigsaw.Configure(extended.Resolution, extended.Services, roots)
	if err != nil {
		return err
	}

	if dumpPath != "" {
		return jigsaw.DumpConfiguration(cfg, dumpPath)
	}
	fmt.Print(cfg.Dump())
	return nil
}
