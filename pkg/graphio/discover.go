package graphio

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// GraphSuffix is the file name suffix of every persisted connectome.
const GraphSuffix = "_adj.csv"

var (
	subjectRe = regexp.MustCompile(`sub-([A-Za-z0-9]+)`)
	sessionRe = regexp.MustCompile(`ses-([A-Za-z0-9]+)`)
)

// FindGraphFiles walks a participant-level output directory and returns the
// absolute paths of all graph files whose name contains atlas, sorted.
// An empty atlas matches every graph.
func FindGraphFiles(root, atlas string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &IOError{Op: "resolve", Path: root, Err: err}
	}
	var out []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasSuffix(name, GraphSuffix) && strings.Contains(name, atlas) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, &IOError{Op: "walk", Path: abs, Err: err}
	}
	sort.Strings(out)
	return out, nil
}

// SubjectFromPath extracts the BIDS subject label (the XXXX in sub-XXXX)
// from the file name, falling back to the enclosing directories.
func SubjectFromPath(path string) (string, bool) {
	return bidsEntity(subjectRe, path)
}

// SessionFromPath extracts the BIDS session label, if any.
func SessionFromPath(path string) (string, bool) {
	return bidsEntity(sessionRe, path)
}

func bidsEntity(re *regexp.Regexp, path string) (string, bool) {
	if m := re.FindStringSubmatch(filepath.Base(path)); m != nil {
		return m[1], true
	}
	if m := re.FindStringSubmatch(filepath.ToSlash(path)); m != nil {
		return m[1], true
	}
	return "", false
}
