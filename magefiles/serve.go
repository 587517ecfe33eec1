//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Serve builds the binary and runs the citation server on :8001.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV("./bin/refcite", "serve")
}

// Interactive builds the binary and starts the clipboard prompt loop.
func Interactive() error {
	mg.Deps(Build)
	return sh.RunV("./bin/refcite", "interactive")
}
