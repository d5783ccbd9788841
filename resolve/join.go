package resolve

import (
	"fmt"
	"os"
)

// Filesystem is the capability the default join strategy needs. Tests swap
// in an in-memory implementation so no disk is touched.
type Filesystem interface {
	Exists(path string) bool
}

type osFilesystem struct{}

func (osFilesystem) Exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// OSFilesystem returns the real filesystem.
func OSFilesystem() Filesystem {
	return osFilesystem{}
}

// Candidate is one absolute path guess tagged with where it came from.
type Candidate struct {
	Path   string
	Origin CandidateOrigin
}

// Request is the single argument a join strategy receives: the URI being
// resolved, the candidate list in priority order and enough context for
// custom strategies to do their own searching.
type Request struct {
	URI        string
	Candidates []Candidate
	BaseDir    string // originating directory the first candidate was built from
	Options    *Options
}

// Joiner resolves a request down to one absolute path. Returning ("", nil)
// means not found, which is a per-token miss, not an error. A non-nil error
// is reserved for genuinely exceptional conditions and aborts the current
// file.
type Joiner func(Request) (string, error)

// FilesystemJoiner is the default strategy: first candidate that exists as a
// regular file wins.
func FilesystemJoiner(fs Filesystem) Joiner {
	return func(req Request) (string, error) {
		for _, c := range req.Candidates {
			if fs.Exists(c.Path) {
				return c.Path, nil
			}
		}
		return "", nil
	}
}

// MultiRootJoiner searches the candidate list first and then re-resolves the
// URI against every extra root in order. Roots must exist, a missing root is
// an error by the strategy contract.
func MultiRootJoiner(fs Filesystem, roots ...string) Joiner {
	return func(req Request) (string, error) {
		if p, err := FilesystemJoiner(fs)(req); err != nil || len(p) != 0 {
			return p, err
		}
		for _, root := range roots {
			if !dirExists(root) {
				return "", fmt.Errorf("search root %q does not exist", root)
			}
			if p := joinPath(root, req.URI); fs.Exists(p) {
				return p, nil
			}
		}
		return "", nil
	}
}

func dirExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
