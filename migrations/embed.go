package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var Files embed.FS

// GetFS returns the migrations for the given database driver
func GetFS(driver string) (fs.FS, error) {
	return fs.Sub(Files, driver)
}
