package ora

import (
	"errors"
	"strings"
	"testing"

	"github.com/sqlsqrt/sqlsqrt/driver"
	"github.com/sqlsqrt/sqlsqrt/driver/mock"
)

const typesQuery = "SELECT b, i, u, f, d, ts, s FROM every_type"

func typesScript() *mock.Script {
	return &mock.Script{
		Columns: []mock.Column{
			{Name: "B", Type: driver.NativeTypeBoolean, OracleType: driver.OracleTypeBoolean},
			{Name: "I", Type: driver.NativeTypeInt64, OracleType: driver.OracleTypeNumber},
			{Name: "U", Type: driver.NativeTypeUint64, OracleType: driver.OracleTypeNumber},
			{Name: "F", Type: driver.NativeTypeFloat, OracleType: driver.OracleTypeNativeFloat},
			{Name: "D", Type: driver.NativeTypeDouble, OracleType: driver.OracleTypeNativeDouble},
			{Name: "TS", Type: driver.NativeTypeTimestamp, OracleType: driver.OracleTypeTimestamp},
			{Name: "S", Type: driver.NativeTypeBytes, OracleType: driver.OracleTypeVarchar},
		},
		Rows: [][]any{
			{
				true,
				int64(-42),
				uint64(42),
				float32(2.5),
				float64(3.25),
				driver.Timestamp{Year: 2024, Month: 3, Day: 14, Hour: 9, Minute: 26, Second: 53, FSecond: 590000, TZHourOffset: 2},
				"pi day",
			},
		},
	}
}

// fetchTypesRow executes the all-types query and returns one cell per column.
func fetchTypesRow(t *testing.T, conn *Conn) []Cell {
	t.Helper()
	stmt := prepare(t, conn, typesQuery)
	t.Cleanup(stmt.Close)
	if err := stmt.Execute(); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	found, err := stmt.Fetch()
	if err != nil || !found {
		t.Fatalf("Fetch: found=%v err=%v", found, err)
	}
	cells := make([]Cell, 7)
	for pos := uint32(1); pos <= 7; pos++ {
		cells[pos-1], err = stmt.ColumnValue(pos)
		if err != nil {
			t.Fatalf("ColumnValue(%d) returned error: %v", pos, err)
		}
	}
	return cells
}

func TestCell_RoundTrip(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t, mock.Config{
		Queries: map[string]*mock.Script{typesQuery: typesScript()},
	})
	conn := connect(t, env)
	defer conn.Close()

	cells := fetchTypesRow(t, conn)

	if b, err := cells[0].Bool(); err != nil || b != true {
		t.Fatalf("Bool: got %v, %v", b, err)
	}
	if i, err := cells[1].Int64(); err != nil || i != -42 {
		t.Fatalf("Int64: got %v, %v", i, err)
	}
	if u, err := cells[2].Uint64(); err != nil || u != 42 {
		t.Fatalf("Uint64: got %v, %v", u, err)
	}
	if f, err := cells[3].Float32(); err != nil || f != 2.5 {
		t.Fatalf("Float32: got %v, %v", f, err)
	}
	if d, err := cells[4].Float64(); err != nil || d != 3.25 {
		t.Fatalf("Float64: got %v, %v", d, err)
	}
	ts, err := cells[5].Timestamp()
	if err != nil {
		t.Fatalf("Timestamp returned error: %v", err)
	}
	if ts.Year != 2024 || ts.Month != 3 || ts.Day != 14 || ts.FSecond != 590000 || ts.TZHourOffset != 2 {
		t.Fatalf("Timestamp mismatch: %+v", ts)
	}
	if s, err := cells[6].Bytes(); err != nil || string(s) != "pi day" {
		t.Fatalf("Bytes: got %q, %v", s, err)
	}
}

func TestCell_TypeMismatch(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t, mock.Config{
		Queries: map[string]*mock.Script{typesQuery: typesScript()},
	})
	conn := connect(t, env)
	defer conn.Close()

	cells := fetchTypesRow(t, conn)

	// Every projection against a cell of a different tag must fail with a
	// context-only error and never return a value.
	tt := []struct {
		Name    string
		Project func(Cell) error
	}{
		{"Bool", func(c Cell) error { _, err := c.Bool(); return err }},
		{"Int64", func(c Cell) error { _, err := c.Int64(); return err }},
		{"Uint64", func(c Cell) error { _, err := c.Uint64(); return err }},
		{"Float32", func(c Cell) error { _, err := c.Float32(); return err }},
		{"Float64", func(c Cell) error { _, err := c.Float64(); return err }},
		{"Timestamp", func(c Cell) error { _, err := c.Timestamp(); return err }},
		{"Bytes", func(c Cell) error { _, err := c.Bytes(); return err }},
		{"RowID", func(c Cell) error { _, err := c.RowID(); return err }},
	}

	matching := map[string]driver.NativeType{
		"Bool":      driver.NativeTypeBoolean,
		"Int64":     driver.NativeTypeInt64,
		"Uint64":    driver.NativeTypeUint64,
		"Float32":   driver.NativeTypeFloat,
		"Float64":   driver.NativeTypeDouble,
		"Timestamp": driver.NativeTypeTimestamp,
		"Bytes":     driver.NativeTypeBytes,
		"RowID":     driver.NativeTypeRowid,
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			for _, cell := range cells {
				if cell.NativeType() == matching[tc.Name] {
					continue
				}
				err := tc.Project(cell)
				var oraErr *Error
				if !errors.As(err, &oraErr) {
					t.Fatalf("projecting %s from %s: expected *ora.Error, got %v", tc.Name, cell.NativeType(), err)
				}
				if oraErr.Info != nil {
					t.Fatalf("type mismatch must be a context-only error, got %+v", oraErr.Info)
				}
				if !strings.Contains(oraErr.Context, "value for column is not") {
					t.Fatalf("unexpected context: %q", oraErr.Context)
				}
			}
		})
	}
}

func TestRowID_CloneAndCachedText(t *testing.T) {
	t.Parallel()

	const rowidQuery = "SELECT rowid FROM t"
	const rowidText = "AAAT9PAAHAAAVkJAAA"
	env, m := newTestEnv(t, mock.Config{
		Queries: map[string]*mock.Script{
			rowidQuery: {
				Columns: []mock.Column{
					{Name: "ROWID", Type: driver.NativeTypeRowid, OracleType: driver.OracleTypeRowid},
				},
				Rows: [][]any{{rowidText}},
			},
		},
	})
	conn := connect(t, env)
	defer conn.Close()

	stmt := prepare(t, conn, rowidQuery)
	defer stmt.Close()
	if err := stmt.Execute(); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if _, err := stmt.Fetch(); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	cell, err := stmt.ColumnValue(1)
	if err != nil {
		t.Fatalf("ColumnValue returned error: %v", err)
	}
	rowid, err := cell.RowID()
	if err != nil {
		t.Fatalf("RowID returned error: %v", err)
	}
	if rowid.String() != rowidText {
		t.Fatalf("expected cached text %q, got %q", rowidText, rowid.String())
	}

	h := rowid.ref.h
	// The slot holds one driver reference; the wrapper holds a second.
	if got := m.RefCount(h); got != 2 {
		t.Fatalf("expected refcount 2 after wrap, got %d", got)
	}

	dup := rowid.Clone()
	if dup.String() != rowidText {
		t.Fatalf("clone recomputed wrong text: %q", dup.String())
	}
	if got := m.RefCount(h); got != 3 {
		t.Fatalf("expected refcount 3 after clone, got %d", got)
	}

	rowid.Close()
	dup.Close()
	if got := m.RefCount(h); got != 1 {
		t.Fatalf("expected only the slot's reference to remain, got %d", got)
	}
}
