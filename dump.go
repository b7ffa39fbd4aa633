package jigsaw

import (
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	shutil "github.com/termie/go-shutil"
)

// DumpConfiguration renders cfg's deterministic report and places it at
// path. The report is written to a temporary file in the same directory
// first and then copied into place with go-shutil, so a failure while
// writing the report leaves path untouched. The copy writes into path in
// place and is not atomic: a reader of path can observe a partially
// copied dump.
func DumpConfiguration(cfg *Configuration, path string) error {
	tmp, err := ioutil.TempFile(tempDirFor(path), "jigsaw-dump-")
	if err != nil {
		return errors.Wrap(err, "jigsaw: creating dump temp file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(cfg.Dump()); err != nil {
		tmp.Close()
		return errors.Wrap(err, "jigsaw: writing dump temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "jigsaw: closing dump temp file")
	}

	if err := shutil.CopyFile(tmpPath, path, true); err != nil {
		return errors.Wrapf(err, "jigsaw: copying dump into place at %s", path)
	}
	return nil
}

func tempDirFor(path string) string {
	dir := ""
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			dir = path[:i]
			break
		}
	}
	if dir == "" {
		return "."
	}
	return dir
}
