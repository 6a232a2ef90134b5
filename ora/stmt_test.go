package ora

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sqlsqrt/sqlsqrt/driver"
	"github.com/sqlsqrt/sqlsqrt/driver/mock"
)

const usersQuery = "SELECT id, name FROM users"

func usersScript() *mock.Script {
	return &mock.Script{
		Columns: []mock.Column{
			{Name: "ID", Type: driver.NativeTypeInt64, OracleType: driver.OracleTypeNumber},
			{Name: "NAME", Type: driver.NativeTypeBytes, OracleType: driver.OracleTypeVarchar, NullOK: true},
		},
		Rows: [][]any{
			{int64(1), "ada"},
			{int64(2), "grace"},
			{int64(3), "edsger"},
		},
	}
}

// prepare compiles a statement the mock has a script for.
func prepare(t *testing.T, conn *Conn, sql string) *Stmt {
	t.Helper()
	stmt, err := conn.Prepare(sql)
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	return stmt
}

func TestStmt_QueryEndToEnd(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t, mock.Config{
		Queries: map[string]*mock.Script{usersQuery: usersScript()},
	})
	conn := connect(t, env)
	defer conn.Close()

	stmt := prepare(t, conn, usersQuery)
	defer stmt.Close()

	if err := stmt.Execute(); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	n, err := stmt.NumColumns()
	if err != nil {
		t.Fatalf("NumColumns returned error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 columns, got %d", n)
	}

	info, err := stmt.ColumnInfo(2)
	if err != nil {
		t.Fatalf("ColumnInfo returned error: %v", err)
	}
	if info.Name() != "NAME" || !info.NullOK() {
		t.Fatalf("unexpected column info: name=%q nullOK=%v", info.Name(), info.NullOK())
	}
	if info.TypeInfo().DefaultNativeType != driver.NativeTypeBytes {
		t.Fatalf("unexpected native type: %s", info.TypeInfo().DefaultNativeType)
	}

	want := []struct {
		id   int64
		name string
	}{
		{1, "ada"},
		{2, "grace"},
		{3, "edsger"},
	}

	for i, w := range want {
		found, err := stmt.Fetch()
		if err != nil {
			t.Fatalf("Fetch %d returned error: %v", i, err)
		}
		if !found {
			t.Fatalf("Fetch %d reported no row", i)
		}

		idCell, err := stmt.ColumnValue(1)
		if err != nil {
			t.Fatalf("ColumnValue(1) returned error: %v", err)
		}
		id, err := idCell.Int64()
		if err != nil {
			t.Fatalf("Int64 returned error: %v", err)
		}
		if id != w.id {
			t.Fatalf("row %d: expected id %d, got %d", i, w.id, id)
		}

		nameCell, err := stmt.ColumnValue(2)
		if err != nil {
			t.Fatalf("ColumnValue(2) returned error: %v", err)
		}
		name, err := nameCell.Bytes()
		if err != nil {
			t.Fatalf("Bytes returned error: %v", err)
		}
		if string(name) != w.name {
			t.Fatalf("row %d: expected name %q, got %q", i, w.name, name)
		}
	}

	// The fourth fetch exhausts the statement.
	found, err := stmt.Fetch()
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if found {
		t.Fatal("expected no fourth row")
	}

	// Exhaustion is terminal until a new Execute.
	found, err = stmt.Fetch()
	if err != nil {
		t.Fatalf("Fetch after exhaustion returned error: %v", err)
	}
	if found {
		t.Fatal("expected an exhausted statement to stay exhausted")
	}
}

func TestStmt_FetchMonotonicAfterExhaustion(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t, mock.Config{
		Queries: map[string]*mock.Script{usersQuery: usersScript()},
	})
	conn := connect(t, env)
	defer conn.Close()

	stmt := prepare(t, conn, usersQuery)
	defer stmt.Close()

	if err := stmt.Execute(); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	for {
		found, err := stmt.Fetch()
		if err != nil {
			t.Fatalf("Fetch returned error: %v", err)
		}
		if !found {
			break
		}
	}
	for i := 0; i < 5; i++ {
		found, err := stmt.Fetch()
		if err != nil {
			t.Fatalf("Fetch returned error: %v", err)
		}
		if found {
			t.Fatalf("fetch %d after exhaustion produced a row", i)
		}
	}

	// Re-executing resets the cursor.
	if err := stmt.Execute(); err != nil {
		t.Fatalf("re-Execute returned error: %v", err)
	}
	found, err := stmt.Fetch()
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if !found {
		t.Fatal("expected a row after re-execute")
	}
}

func TestStmt_PositionBounds(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t, mock.Config{
		Queries: map[string]*mock.Script{usersQuery: usersScript()},
	})
	conn := connect(t, env)
	defer conn.Close()

	stmt := prepare(t, conn, usersQuery)
	defer stmt.Close()
	if err := stmt.Execute(); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	for _, pos := range []uint32{0, 3, 17} {
		if _, err := stmt.ColumnInfo(pos); err == nil {
			t.Fatalf("ColumnInfo(%d) succeeded out of range", pos)
		}
		if _, err := stmt.ColumnValue(pos); err == nil {
			t.Fatalf("ColumnValue(%d) succeeded out of range", pos)
		}
	}
}

func TestStmt_ExecuteFailure(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t, mock.Config{
		Queries: map[string]*mock.Script{
			"INSERT INTO users (id) VALUES (1)": {
				ExecError: &driver.ErrorInfo{Code: -1, Message: "ORA-00001: unique constraint violated"},
			},
		},
	})
	conn := connect(t, env)
	defer conn.Close()

	stmt := prepare(t, conn, "INSERT INTO users (id) VALUES (1)")
	defer stmt.Close()

	err := stmt.Execute()
	var oraErr *Error
	if !errors.As(err, &oraErr) {
		t.Fatalf("expected *ora.Error, got %T", err)
	}
	if oraErr.Context != "executing statement" || oraErr.Info == nil {
		t.Fatalf("unexpected error: %+v", oraErr)
	}
}

func TestStmt_BindEndToEnd(t *testing.T) {
	t.Parallel()

	const describeQuery = "SELECT column_name FROM all_tab_columns WHERE table_name = :1"
	env, m := newTestEnv(t, mock.Config{
		Queries: map[string]*mock.Script{
			describeQuery: {
				Columns: []mock.Column{
					{Name: "COLUMN_NAME", Type: driver.NativeTypeBytes, OracleType: driver.OracleTypeVarchar},
				},
				Rows: [][]any{{"ID"}},
			},
		},
	})
	conn := connect(t, env)
	defer conn.Close()

	payload := []byte("USERS_10BY")
	v, err := conn.NewArrayVar(VarOpts{
		OracleType:   driver.OracleTypeChar,
		NativeType:   driver.NativeTypeBytes,
		MaxArraySize: 1,
		Sizing:       ByteBufferSizing{Size: uint32(len(payload)), SizeIsBytes: true},
	})
	if err != nil {
		t.Fatalf("NewArrayVar returned error: %v", err)
	}
	defer v.Close()

	if err := v.SetBytes(0, payload); err != nil {
		t.Fatalf("SetBytes returned error: %v", err)
	}

	stmt := prepare(t, conn, describeQuery)
	defer stmt.Close()

	if err := stmt.BindByPos(1, v); err != nil {
		t.Fatalf("BindByPos returned error: %v", err)
	}
	if err := stmt.Execute(); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if len(m.ExecutedBinds) != 1 {
		t.Fatalf("expected one observed bind, got %d", len(m.ExecutedBinds))
	}
	got := m.ExecutedBinds[0]
	if got.SQL != describeQuery || got.Pos != 1 {
		t.Fatalf("bind observed at wrong place: %+v", got)
	}
	if !bytes.Equal(got.Value, payload) {
		t.Fatalf("native layer saw %q, expected %q", got.Value, payload)
	}
}
