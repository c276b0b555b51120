package migration

import (
	"io/fs"
	"testing"

	"github.com/julianstephens/healthydesk/migrations"
)

func fsSub(t *testing.T) (fs.FS, error) {
	t.Helper()
	return fs.Sub(migrations.FS, "sqlite")
}
