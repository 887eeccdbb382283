package sqlrevision

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/vippsas/sqlrevision/statements"
)

// Revision is a single *.sql file, split into statements.
type Revision struct {
	// Name is the slash-separated path of the file inside its filesystem.
	// Revisions are applied in lexical order of Name.
	Name string
	// Source identifies the file in error messages, e.g. `fs[0]:0001.sql`.
	Source     string
	Statements statements.StatementGroup
	// Checksum is computed from the statements only, so that editing
	// comments or whitespace between statements does not change it.
	Checksum string
	// IncludeIf lists the tags that must all be present for the file to
	// be included; see Options.IncludeTags.
	IncludeIf []string
}

type Revisions []Revision

// Names returns the revision names in order.
func (r Revisions) Names() []string {
	result := make([]string, len(r))
	for i, rev := range r {
		result[i] = rev.Name
	}
	return result
}

// Options that affect file loading; pass an empty struct to get
// default options.
type Options struct {
	IncludeTags []string
}

// Checksum hashes the statements of a revision. Two groups with equal
// statements get equal checksums.
func Checksum(group statements.StatementGroup) string {
	hasher := sha256.New()
	for _, stmt := range group.All() {
		hasher.Write([]byte(stmt))
		hasher.Write([]byte(";\n"))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// Include loads every *.sql file in the given filesystems as a revision.
// Typically used with the `embed` go feature.
//
// Files are visited in lexical order; hidden files and directories are
// skipped. Files that fail to parse do not stop loading, all failures are
// returned together as RevisionParseErrors. Errors reading the filesystems
// are returned as is.
func Include(opts Options, fsys ...fs.FS) (Revisions, error) {
	var result Revisions
	var parseErrors []RevisionParseError

	// It is easy to pass the same directory twice; refuse identical files
	// rather than running the same revision twice under two names.
	hashes := make(map[[32]byte]string)
	names := make(map[string]string)

	for fidx, f := range fsys {
		err := fs.WalkDir(f, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if strings.HasPrefix(path, ".") && path != "." || strings.Contains(path, "/.") {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(path, ".sql") {
				return nil
			}

			buf, err := fs.ReadFile(f, path)
			if err != nil {
				return err
			}

			source := fmt.Sprintf("fs[%d]:%s", fidx, path)
			hash := sha256.Sum256(buf)
			if existing, ok := hashes[hash]; ok {
				return fmt.Errorf("file %s has exact same contents as %s (possibly in different filesystems)",
					source, existing)
			}
			hashes[hash] = source

			if existing, ok := names[path]; ok {
				return fmt.Errorf("revision %s is present both as %s and %s", path, existing, source)
			}
			names[path] = source

			rev, err := parseRevision(path, source, string(buf))
			if err != nil {
				parseErrors = append(parseErrors, RevisionParseError{Source: source, Err: err})
				return nil
			}
			if matchesIncludeTags(rev.IncludeIf, opts.IncludeTags) {
				result = append(result, rev)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(parseErrors) > 0 {
		return nil, RevisionParseErrors{Errors: parseErrors}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// MustInclude is like Include but panics on error.
func MustInclude(opts Options, fsys ...fs.FS) Revisions {
	result, err := Include(opts, fsys...)
	if err != nil {
		panic(err)
	}
	return result
}

// ParseRevision splits the source of a single revision file.
func ParseRevision(name string, input string) (Revision, error) {
	return parseRevision(name, name, input)
}

func parseRevision(name, source, input string) (Revision, error) {
	includeIf, err := parsePragmas(input)
	if err != nil {
		return Revision{}, err
	}
	group, err := statements.Parse(input)
	if err != nil {
		return Revision{}, err
	}
	return Revision{
		Name:       name,
		Source:     source,
		Statements: group,
		Checksum:   Checksum(group),
		IncludeIf:  includeIf,
	}, nil
}

func matchesIncludeTags(required []string, got []string) bool {
	for _, r := range required {
		found := false
		for _, g := range got {
			if g == r {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
