//go:build !sqlite_vec

package memory

import (
	_ "modernc.org/sqlite"
)

// Pure-Go driver for the default build; no cgo required.
const driverName = "sqlite"
