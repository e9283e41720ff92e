// Package testutil contains helpers shared by the tests of several packages.
package testutil

import (
	"path/filepath"
	"runtime"

	"github.com/targodan/go-errors"
)

// ProjectRoot returns the root directory of the loadmeter sources.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("could not determine location of the test sources")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..")), nil
}

// ProjectPath joins elem to the project root.
func ProjectPath(elem ...string) (string, error) {
	root, err := ProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{root}, elem...)...), nil
}
