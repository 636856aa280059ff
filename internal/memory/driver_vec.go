//go:build sqlite_vec && cgo

package memory

import (
	_ "github.com/mattn/go-sqlite3"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

// cgo driver with the sqlite-vec extension auto-loaded; enables
// accelerated vector queries on builds tagged sqlite_vec.
const driverName = "sqlite3"

func init() {
	vec.Auto()
}
