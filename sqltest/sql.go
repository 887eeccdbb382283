package sqltest

import (
	"embed"
	"io/fs"

	"github.com/vippsas/sqlrevision"
)

//go:embed revisions/*.sql
var revisionfs embed.FS

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Revisions are applied to a fresh database by the tests in this package.
var Revisions = sqlrevision.MustInclude(
	sqlrevision.Options{},
	mustSub(revisionfs, "revisions"),
)
