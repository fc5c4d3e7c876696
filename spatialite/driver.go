package spatialite

import (
	"database/sql"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// SpatialDriverName is the database/sql driver name registered by
// RegisterSpatialDriver.
const SpatialDriverName = "spatialite"

var registerOnce sync.Once

// RegisterSpatialDriver registers a sqlite3 driver that loads the
// mod_spatialite extension on every new connection and returns its name.
// The extension library must be installed on the host system; plain
// databases opened with Open do not require it.
func RegisterSpatialDriver() string {
	registerOnce.Do(func() {
		sql.Register(SpatialDriverName, &sqlite3.SQLiteDriver{
			Extensions: []string{"mod_spatialite"},
		})
	})
	return SpatialDriverName
}
