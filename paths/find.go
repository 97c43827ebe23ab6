// Package paths locates sprite files given a short name.
//
// The search path is the ASEPRITE_PATH environment variable (a list of
// directories, separated like PATH), then the working directory and its
// testdata subdirectory. Names without an extension also match .aseprite and
// .ase files.
package paths

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// EnvVar holds extra directories to search.
const EnvVar = "ASEPRITE_PATH"

var extensions = []string{".aseprite", ".ase"}

// Dirs returns the directories Find looks in, in order.
func Dirs() []string {
	var dirs []string
	for _, d := range filepath.SplitList(os.Getenv(EnvVar)) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return append(dirs, ".", "testdata")
}

func candidates(fileName string) []string {
	names := []string{fileName}
	if filepath.Ext(fileName) == "" {
		for _, ext := range extensions {
			names = append(names, fileName+ext)
		}
	}
	if filepath.IsAbs(fileName) {
		return names
	}

	var out []string
	for _, d := range Dirs() {
		for _, n := range names {
			out = append(out, filepath.Join(d, n))
		}
	}
	return out
}

// Find returns the first existing path for fileName, or "" if there is
// none.
func Find(fileName string) string {
	for _, path := range candidates(fileName) {
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			glog.V(1).Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// IsURL reports whether fileName is fetched over HTTP by Open.
func IsURL(fileName string) bool {
	return strings.HasPrefix(fileName, "http://") || strings.HasPrefix(fileName, "https://")
}

// Open opens fileName. URLs are fetched over HTTP; anything else is looked
// up with Find.
func Open(fileName string) (io.ReadSeekCloser, error) {
	if IsURL(fileName) {
		return openHTTP(fileName)
	}
	path := Find(fileName)
	if path == "" {
		return nil, errors.Wrapf(os.ErrNotExist, "%q not found in %v", fileName, Dirs())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q", path)
	}
	return f, nil
}
