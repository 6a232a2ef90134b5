package ora

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sqlsqrt/sqlsqrt/driver"
	"github.com/sqlsqrt/sqlsqrt/driver/mock"
)

// newBytesVar allocates a byte-buffer variable with the given slot count.
func newBytesVar(t *testing.T, conn *Conn, slots uint32) *Var {
	t.Helper()
	v, err := conn.NewArrayVar(VarOpts{
		OracleType:   driver.OracleTypeVarchar,
		NativeType:   driver.NativeTypeBytes,
		MaxArraySize: slots,
		IsArray:      true,
		Sizing:       ByteBufferSizing{Size: 64, SizeIsBytes: true},
	})
	if err != nil {
		t.Fatalf("NewArrayVar returned error: %v", err)
	}
	return v
}

func TestVar_AllocatedData(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t, mock.Config{})
	conn := connect(t, env)
	defer conn.Close()

	const n = 7
	v := newBytesVar(t, conn, n)
	defer v.Close()

	cells := v.AllocatedData()
	if len(cells) != n {
		t.Fatalf("expected %d allocated cells, got %d", n, len(cells))
	}
	for i, c := range cells {
		if c.NativeType() != driver.NativeTypeBytes {
			t.Fatalf("cell %d: expected bytes tag, got %s", i, c.NativeType())
		}
		if !c.IsNull() {
			t.Fatalf("cell %d: expected null before any write", i)
		}
	}

	if err := v.SetBytes(3, []byte("written")); err != nil {
		t.Fatalf("SetBytes returned error: %v", err)
	}
	if cells[3].IsNull() {
		t.Fatal("cell 3 still reports null after write")
	}
	got, err := cells[3].Bytes()
	if err != nil {
		t.Fatalf("Bytes returned error: %v", err)
	}
	if string(got) != "written" {
		t.Fatalf("expected %q, got %q", "written", got)
	}
}

func TestVar_SetBytesTooLarge(t *testing.T) {
	t.Parallel()

	env, m := newTestEnv(t, mock.Config{})
	conn := connect(t, env)
	defer conn.Close()

	v := newBytesVar(t, conn, 1)
	defer v.Close()

	oversize := make([]byte, driver.MaxBytesSize)
	err := v.SetBytes(0, oversize)

	var oraErr *Error
	if !errors.As(err, &oraErr) {
		t.Fatalf("expected *ora.Error, got %T", err)
	}
	if oraErr.Info != nil {
		t.Fatal("size precondition must raise a context-only error")
	}
	if len(m.SetBytesCalls) != 0 {
		t.Fatal("oversize value must never reach the native call")
	}
}

func TestVar_CopyFrom(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t, mock.Config{})
	conn := connect(t, env)
	defer conn.Close()

	src := newBytesVar(t, conn, 2)
	defer src.Close()
	dst := newBytesVar(t, conn, 2)
	defer dst.Close()

	if err := src.SetBytes(1, []byte("payload")); err != nil {
		t.Fatalf("SetBytes returned error: %v", err)
	}
	if err := dst.CopyFrom(src, 0, 1); err != nil {
		t.Fatalf("CopyFrom returned error: %v", err)
	}

	got, err := dst.AllocatedData()[0].Bytes()
	if err != nil {
		t.Fatalf("Bytes returned error: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("expected copied payload, got %q", got)
	}

	// Copying between incompatible element types is a driver-reported error.
	other, err := conn.NewArrayVar(VarOpts{
		OracleType:   driver.OracleTypeNumber,
		NativeType:   driver.NativeTypeInt64,
		MaxArraySize: 1,
		Sizing:       ByteBufferSizing{Size: 0, SizeIsBytes: true},
	})
	if err != nil {
		t.Fatalf("NewArrayVar returned error: %v", err)
	}
	defer other.Close()

	if err := other.CopyFrom(src, 0, 0); err == nil {
		t.Fatal("expected incompatible copy to fail")
	}
}

func TestVar_SizesAndReturnedData(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t, mock.Config{})
	conn := connect(t, env)
	defer conn.Close()

	v := newBytesVar(t, conn, 4)
	defer v.Close()

	n, err := v.NumElements()
	if err != nil {
		t.Fatalf("NumElements returned error: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 elements, got %d", n)
	}

	size, err := v.SizeInBytes()
	if err != nil {
		t.Fatalf("SizeInBytes returned error: %v", err)
	}
	if size == 0 {
		t.Fatal("expected non-zero storage size")
	}

	if err := v.SetBytes(2, []byte("out")); err != nil {
		t.Fatalf("SetBytes returned error: %v", err)
	}
	cells, err := v.ReturnedData(0)
	if err != nil {
		t.Fatalf("ReturnedData returned error: %v", err)
	}
	if len(cells) != 4 {
		t.Fatalf("expected 4 returned cells, got %d", len(cells))
	}
	for i, c := range cells {
		if c.NativeType() != driver.NativeTypeBytes {
			t.Fatalf("returned cell %d has tag %s", i, c.NativeType())
		}
	}
	got, err := cells[2].Bytes()
	if err != nil {
		t.Fatalf("Bytes returned error: %v", err)
	}
	if !bytes.Equal(got, []byte("out")) {
		t.Fatalf("expected %q, got %q", "out", got)
	}
}

func TestVar_SetStmtAndRowID(t *testing.T) {
	t.Parallel()

	const rowidQuery = "SELECT rowid FROM users WHERE id = 1"
	env, _ := newTestEnv(t, mock.Config{
		Queries: map[string]*mock.Script{
			rowidQuery: {
				Columns: []mock.Column{
					{Name: "ROWID", Type: driver.NativeTypeRowid, OracleType: driver.OracleTypeRowid},
				},
				Rows: [][]any{{"AAAT9PAAHAAAVkJAAA"}},
			},
			usersQuery: usersScript(),
		},
	})
	conn := connect(t, env)
	defer conn.Close()

	// Fetch a driver-produced row id.
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
	defer rowid.Close()

	rv, err := conn.NewArrayVar(VarOpts{
		OracleType:   driver.OracleTypeRowid,
		NativeType:   driver.NativeTypeRowid,
		MaxArraySize: 1,
		Sizing:       ByteBufferSizing{Size: 0, SizeIsBytes: true},
	})
	if err != nil {
		t.Fatalf("NewArrayVar returned error: %v", err)
	}
	defer rv.Close()
	if err := rv.SetRowID(0, rowid); err != nil {
		t.Fatalf("SetRowID returned error: %v", err)
	}

	// Bind a cursor into a statement-typed slot.
	sv, err := conn.NewArrayVar(VarOpts{
		OracleType:   driver.OracleTypeStmt,
		NativeType:   driver.NativeTypeStmt,
		MaxArraySize: 1,
		Sizing:       ByteBufferSizing{Size: 0, SizeIsBytes: true},
	})
	if err != nil {
		t.Fatalf("NewArrayVar returned error: %v", err)
	}
	defer sv.Close()

	cursor := prepare(t, conn, usersQuery)
	defer cursor.Close()
	if err := sv.SetStmt(0, cursor); err != nil {
		t.Fatalf("SetStmt returned error: %v", err)
	}
}
