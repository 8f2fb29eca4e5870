//go:build sqlite_vec && cgo

package store

import (
	"database/sql"
	"encoding/binary"
	"math"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

func init() {
	// Auto-loads the sqlite-vec extension into every new connection this
	// process opens, giving us the real vec_distance_L2 SQL function and
	// vec0 virtual table instead of the pure-Go rigvec0 shim.
	vec.Auto()
}

// registerVectorSupport is a no-op on the native path: sqlite-vec
// registers its own functions via the init() auto-loader above, so there
// is nothing left for connect-time setup to do.
func registerVectorSupport(conn *sql.DB, tableName string) error {
	return nil
}

// vectorDistanceFn names the SQL scalar function FindSimilar orders by.
// Native builds use sqlite-vec's own function; see vector_fallback.go for
// the pure-Go counterpart.
const vectorDistanceFn = "vec_distance_L2"

func encodeFloat32Blob(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
