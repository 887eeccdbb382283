package cmd

import (
	"io/fs"
	"os"

	"github.com/vippsas/sqlrevision"
	"github.com/vippsas/sqlrevision/go/mapfs"
)

// revisions loads the revisions in `directory`, or only the given files
// if any are passed.
func revisions(files []string) (sqlrevision.Revisions, error) {
	var fsys fs.FS
	if len(files) > 0 {
		m, err := mapfs.New(files...)
		if err != nil {
			return nil, err
		}
		fsys = m
	} else {
		fsys = os.DirFS(directory)
	}
	return sqlrevision.Include(
		sqlrevision.Options{
			IncludeTags: tags,
		},
		fsys,
	)
}
