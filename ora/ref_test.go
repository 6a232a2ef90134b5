package ora

import (
	"testing"

	"github.com/sqlsqrt/sqlsqrt/driver/mock"
)

// connect is a shorthand for tests that need a session.
func connect(t *testing.T, env *Env) *Conn {
	t.Helper()
	conn, err := Connect(env, ConnOptions{Username: "scott", Password: "tiger", ConnString: "db1.example.com/orclpdb1"})
	if err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	return conn
}

// TestRefCounting walks clone/close sequences and checks that the native
// reference count always equals the number of live co-owners, and that the
// resource is released exactly once.
func TestRefCounting(t *testing.T) {
	t.Parallel()

	env, m := newTestEnv(t, mock.Config{})

	conn := connect(t, env)
	h := conn.ref.h
	if got := m.RefCount(h); got != 1 {
		t.Fatalf("expected refcount 1 after Connect, got %d", got)
	}

	a := conn.Clone()
	b := conn.Clone()
	c := b.Clone()
	if got := m.RefCount(h); got != 4 {
		t.Fatalf("expected refcount 4 after three clones, got %d", got)
	}

	b.Close()
	if got := m.RefCount(h); got != 3 {
		t.Fatalf("expected refcount 3, got %d", got)
	}

	// Closing an already closed co-owner is a no-op, like destroying a
	// moved-from handle.
	b.Close()
	if got := m.RefCount(h); got != 3 {
		t.Fatalf("expected refcount unchanged after double Close, got %d", got)
	}

	a.Close()
	c.Close()
	if got := m.RefCount(h); got != 1 {
		t.Fatalf("expected refcount 1, got %d", got)
	}

	conn.Close()
	if got := m.RefCount(h); got != 0 {
		t.Fatalf("expected resource released, refcount %d", got)
	}
}

func TestRefCounting_CloneOfClosedPanics(t *testing.T) {
	t.Parallel()

	env, _ := newTestEnv(t, mock.Config{})
	conn := connect(t, env)
	conn.Close()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when cloning a closed connection")
		}
	}()
	conn.Clone()
}

func TestRefCounting_StatementSharesConnectionLifetime(t *testing.T) {
	t.Parallel()

	env, m := newTestEnv(t, mock.Config{
		Queries: map[string]*mock.Script{"SELECT 1 FROM dual": {}},
	})
	conn := connect(t, env)

	stmt, err := conn.Prepare("SELECT 1 FROM dual")
	if err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	sh := stmt.ref.h

	dup := stmt.Clone()
	if got := m.RefCount(sh); got != 2 {
		t.Fatalf("expected statement refcount 2, got %d", got)
	}

	// The connection can close while statement co-owners remain live.
	conn.Close()
	stmt.Close()
	if got := m.RefCount(sh); got != 1 {
		t.Fatalf("expected statement refcount 1, got %d", got)
	}
	dup.Close()
	if got := m.RefCount(sh); got != 0 {
		t.Fatalf("expected statement released, refcount %d", got)
	}
}
