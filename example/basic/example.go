package example

import (
	"embed"

	"github.com/vippsas/sqlrevision"
)

//go:embed revisions
var sqlfs embed.FS

// Revisions holds the revisions applied everywhere.
var Revisions = sqlrevision.MustInclude(sqlrevision.Options{}, sqlfs)

// DevRevisions also holds the test data revision.
var DevRevisions = sqlrevision.MustInclude(sqlrevision.Options{IncludeTags: []string{"dev"}}, sqlfs)
