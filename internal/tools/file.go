// Package tools contains small filesystem helpers.
package tools

import (
	"errors"
	"io/fs"
	"os"
)

// FileExists reports whether filename can be found. Errors other than "not
// exist" are treated as existing file.
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !errors.Is(err, fs.ErrNotExist)
}

// PathExists returns whether the given file or directory exists or not
func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
