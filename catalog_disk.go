package jigsaw

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"sync"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
	"github.com/theckman/go-flock"
)

// DiskCatalog is a Catalog backed by a directory of TOML module-definition
// snapshots: a pre-parsed stand-in for the on-disk module-info format,
// rather than the module-info compiler's own text grammar. It supports
// Refresh, which re-walks the directory and atomically swaps in a new
// snapshot, guarded by an exclusive file lock so two processes don't
// refresh the same directory concurrently.
type DiskCatalog struct {
	dir      string
	lockPath string

	mu      sync.RWMutex
	current Catalog
}

// NewDiskCatalog builds a DiskCatalog rooted at dir, performing an initial
// Refresh before returning.
func NewDiskCatalog(dir string) (*DiskCatalog, error) {
	dc := &DiskCatalog{
		dir:      dir,
		lockPath: filepath.Join(dir, ".jigsaw-catalog.lock"),
	}
	if err := dc.Refresh(); err != nil {
		return nil, err
	}
	return dc, nil
}

// Refresh re-walks dir for *.toml files, parses each as a catalog
// snapshot, and swaps the result in as the catalog's current view.
// FindCandidates/ReadModuleInfo/GatherProviders each grab the current
// snapshot under a read lock, so every single call sees one consistent
// snapshot; a resolution already in flight across a Refresh is not pinned
// to one snapshot, and its later calls see the new one.
func (dc *DiskCatalog) Refresh() error {
	fl := flock.NewFlock(dc.lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return errors.Wrapf(err, "jigsaw: locking catalog directory %s", dc.dir)
	}
	if !locked {
		return errors.Errorf("jigsaw: catalog directory %s is being refreshed by another process", dc.dir)
	}
	defer fl.Unlock()

	var all []*ModuleInfo
	walkErr := godirwalk.Walk(dc.dir, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() || !strings.HasSuffix(osPathname, ".toml") {
				return nil
			}
			data, err := ioutil.ReadFile(osPathname)
			if err != nil {
				return errors.Wrapf(err, "reading %s", osPathname)
			}
			modules, err := parseTOMLModules(data)
			if err != nil {
				return errors.Wrapf(err, "parsing %s", osPathname)
			}
			all = append(all, modules...)
			return nil
		},
	})
	if walkErr != nil {
		return errors.Wrapf(walkErr, "jigsaw: walking catalog directory %s", dc.dir)
	}

	cat, err := NewCatalog(all)
	if err != nil {
		return err
	}

	dc.mu.Lock()
	dc.current = cat
	dc.mu.Unlock()
	return nil
}

func (dc *DiskCatalog) snapshot() Catalog {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return dc.current
}

func (dc *DiskCatalog) FindCandidates(q ModuleIDQuery) ([]Candidate, error) {
	return dc.snapshot().FindCandidates(q)
}

func (dc *DiskCatalog) ReadModuleInfo(id ModuleID) (*ModuleInfo, bool, error) {
	return dc.snapshot().ReadModuleInfo(id)
}

func (dc *DiskCatalog) GatherProviders(service string) ([]Provider, error) {
	return dc.snapshot().GatherProviders(service)
}
