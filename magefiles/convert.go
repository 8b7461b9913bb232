//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var songbookBin = filepath.Join(binDir, binName)

// Convert splits every document in songs/raw into JSON collections with
// first-line indexes under songs/out.
func Convert() error {
	mg.Deps(Init, Build)
	return sh.RunV(songbookBin, "convert", "--batch",
		"--in", "songs/raw", "--out", "songs/out", "--index")
}

// Library adds every converted collection in songs/out to the song library.
func Library() error {
	mg.Deps(Convert)
	files, err := filepath.Glob(filepath.Join("songs", "out", "*.json"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no collections in songs/out")
		return nil
	}
	args := append([]string{"library", "add", "--dir", "library"}, files...)
	return sh.RunV(songbookBin, args...)
}
