package driver

import (
	"os"
	"path/filepath"
)

// writeAtomic replaces the file at path with data. The data is written to a
// temporary file in the same directory, synced and renamed over path, so
// readers see either the old or the new contents. The permissions of the
// existing file are kept.
func writeAtomic(path string, data []byte) (err error) {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".cfmt-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Chmod(mode); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
