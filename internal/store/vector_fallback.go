//go:build !sqlite_vec || !cgo

package store

import (
	"database/sql"
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	sqlite "modernc.org/sqlite"
	"modernc.org/sqlite/vtab"
)

// registerVectorSupport installs the pure-Go vector path: a rigvec0
// virtual table module holding (embedding, artifact_id) rows plus a
// deterministic vector_distance_l2 scalar function, so FindSimilar works
// without cgo. Grounded on theRebelliousNerd-codenerd's vec_compat.go
// vec0 shim, renamed and trimmed to Rigger's read-mostly artifact search
// (the table supports Update and Delete, but the artifact repository only
// ever inserts rows). tableName
// is this DB's private instance of the table (see DB.vecTable).
var registerVecCompatOnce sync.Once

func registerVectorSupport(conn *sql.DB, tableName string) error {
	registerVecCompatOnce.Do(func() {
		_ = vtab.RegisterModule(nil, "rigvec0", &rigvecModule{})
		_ = sqlite.RegisterDeterministicScalarFunction("vector_distance_l2", 2, vectorDistanceL2)
	})
	_, err := conn.Exec(fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS %s USING rigvec0()`, tableName))
	return err
}

// vectorDistanceFn names the SQL scalar function FindSimilar orders by.
// Pure-Go builds use our own rigvec0-compatible function; see
// vector_native.go for the cgo counterpart backed by the real extension.
const vectorDistanceFn = "vector_distance_l2"

type rigvecModule struct{}

var (
	rigvecTablesMu sync.RWMutex
	rigvecTables   = make(map[string]*rigvecTable)
)

type rigvecRow struct {
	rowid      int64
	embedding  []byte
	artifactID string
}

type rigvecTable struct {
	name      string
	mu        sync.RWMutex
	rows      []rigvecRow
	nextRowID int64
}

func (m *rigvecModule) Create(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.connect(ctx, args)
}

func (m *rigvecModule) Connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.connect(ctx, args)
}

func (m *rigvecModule) connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("rigvec0: insufficient args")
	}
	name := args[2]
	if err := ctx.Declare("CREATE TABLE x(embedding BLOB, artifact_id TEXT)"); err != nil {
		return nil, err
	}

	rigvecTablesMu.Lock()
	defer rigvecTablesMu.Unlock()
	tbl, ok := rigvecTables[name]
	if !ok {
		tbl = &rigvecTable{name: name, nextRowID: 1}
		rigvecTables[name] = tbl
	}
	return tbl, nil
}

func (t *rigvecTable) BestIndex(info *vtab.IndexInfo) error {
	info.EstimatedRows = int64(len(t.rows))
	return nil
}

func (t *rigvecTable) Open() (vtab.Cursor, error) {
	return &rigvecCursor{tbl: t, idx: -1}, nil
}

func (t *rigvecTable) Disconnect() error { return nil }
func (t *rigvecTable) Destroy() error    { return nil }

func (t *rigvecTable) Insert(cols []vtab.Value, rowid *int64) error {
	if len(cols) < 2 {
		return fmt.Errorf("rigvec0: insert expects 2 columns")
	}
	emb, err := coerceBlob(cols[0])
	if err != nil {
		return err
	}
	artifactID := toStringValue(cols[1])

	t.mu.Lock()
	defer t.mu.Unlock()
	rid := *rowid
	if rid <= 0 {
		rid = t.nextRowID
		t.nextRowID++
	}
	for i := range t.rows {
		if t.rows[i].rowid == rid {
			t.rows[i] = rigvecRow{rowid: rid, embedding: emb, artifactID: artifactID}
			*rowid = rid
			return nil
		}
	}
	t.rows = append(t.rows, rigvecRow{rowid: rid, embedding: emb, artifactID: artifactID})
	*rowid = rid
	return nil
}

func (t *rigvecTable) Update(oldRowid int64, cols []vtab.Value, newRowid *int64) error {
	if len(cols) < 2 {
		return fmt.Errorf("rigvec0: update expects 2 columns")
	}
	emb, err := coerceBlob(cols[0])
	if err != nil {
		return err
	}
	artifactID := toStringValue(cols[1])

	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if t.rows[i].rowid == oldRowid {
			t.rows[i] = rigvecRow{rowid: oldRowid, embedding: emb, artifactID: artifactID}
			return nil
		}
	}
	t.rows = append(t.rows, rigvecRow{rowid: oldRowid, embedding: emb, artifactID: artifactID})
	return nil
}

func (t *rigvecTable) Delete(oldRowid int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.rows {
		if t.rows[i].rowid == oldRowid {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			break
		}
	}
	return nil
}

type rigvecCursor struct {
	tbl *rigvecTable
	idx int
}

func (c *rigvecCursor) Filter(idxNum int, idxStr string, vals []vtab.Value) error {
	c.idx = -1
	return c.Next()
}

func (c *rigvecCursor) Next() error {
	c.idx++
	return nil
}

func (c *rigvecCursor) Eof() bool {
	c.tbl.mu.RLock()
	defer c.tbl.mu.RUnlock()
	return c.idx >= len(c.tbl.rows)
}

func (c *rigvecCursor) Column(col int) (vtab.Value, error) {
	c.tbl.mu.RLock()
	defer c.tbl.mu.RUnlock()
	if c.idx < 0 || c.idx >= len(c.tbl.rows) {
		return nil, fmt.Errorf("rigvec0: cursor out of range")
	}
	row := c.tbl.rows[c.idx]
	switch col {
	case 0:
		return row.embedding, nil
	case 1:
		return row.artifactID, nil
	default:
		return nil, fmt.Errorf("rigvec0: invalid column %d", col)
	}
}

func (c *rigvecCursor) Rowid() (int64, error) {
	c.tbl.mu.RLock()
	defer c.tbl.mu.RUnlock()
	if c.idx < 0 || c.idx >= len(c.tbl.rows) {
		return 0, fmt.Errorf("rigvec0: cursor out of range")
	}
	return c.tbl.rows[c.idx].rowid, nil
}

func (c *rigvecCursor) Close() error { return nil }

func coerceBlob(v vtab.Value) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	switch b := v.(type) {
	case []byte:
		return b, nil
	default:
		return nil, fmt.Errorf("rigvec0: expected BLOB value, got %T", v)
	}
}

func toStringValue(v vtab.Value) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// encodeFloat32Blob little-endian-encodes a float32 vector, matching the
// layout sqlite-vec itself expects so the two build paths stay wire
// compatible.
func encodeFloat32Blob(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeFloat32Blob(b []byte) []float32 {
	n := len(b) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

func decodeFloat32Driver(v driver.Value) ([]float32, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("vector_distance_l2: expected BLOB argument, got %T", v)
	}
	return decodeFloat32Blob(b), nil
}

// vectorDistanceL2 is the pure-Go deterministic L2 distance function
// registered as vector_distance_l2(a, b), used by the artifact
// repository's FindSimilar ORDER BY clause.
func vectorDistanceL2(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("vector_distance_l2 expects 2 arguments")
	}
	a, err := decodeFloat32Driver(args[0])
	if err != nil {
		return nil, err
	}
	b, err := decodeFloat32Driver(args[1])
	if err != nil {
		return nil, err
	}
	if len(a) != len(b) {
		return nil, fmt.Errorf("vector_distance_l2: dimension mismatch %d vs %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}
