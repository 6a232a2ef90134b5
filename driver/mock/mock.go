package mock

import (
	"fmt"
	"sync"

	"github.com/sqlsqrt/sqlsqrt/driver"
)

// Column describes one column of a scripted result set.
type Column struct {
	// Name is the column label reported through StmtQueryInfo.
	Name string

	// Type is the native type tag of every value in the column.
	Type driver.NativeType

	// OracleType is the database-side type reported for the column.
	OracleType driver.OracleType

	// NullOK reports whether the column admits NULL values.
	NullOK bool
}

// Script is the canned outcome for one statement text. A Script with no
// columns behaves like a DML statement: execute succeeds and the result set
// is empty.
type Script struct {
	// Columns describe the result set shape.
	Columns []Column

	// Rows hold one value per column. A nil value is a NULL. The Go type of
	// each value must match the column's native type tag: bool, int64,
	// uint64, float32, float64, []byte or string, driver.Timestamp, or a
	// string rowid for rowid-typed columns.
	Rows [][]any

	// ExecError, when set, fails StmtExecute with this record.
	ExecError *driver.ErrorInfo
}

// Config represents the configuration for creating a Mock instance.
type Config struct {
	// RejectVersion makes ContextCreate fail as if the native library did
	// not support the requested interface version.
	RejectVersion bool

	// DestroyError, when set, makes ContextDestroy report failure.
	DestroyError *driver.ErrorInfo

	// ConnectError, when set, fails ConnCreate and PoolAcquireConn.
	ConnectError *driver.ErrorInfo

	// Queries maps statement text to its scripted outcome. Preparing a
	// statement the mock has no script for fails like a syntax error would.
	Queries map[string]*Script
}

// BindCall records one StmtBindByPos invocation.
type BindCall struct {
	SQL string
	Pos uint32
	Var driver.Handle
}

// SetBytesCall records one VarSetFromBytes invocation.
type SetBytesCall struct {
	Var   driver.Handle
	Pos   uint32
	Value []byte
}

// BoundBytes is the byte content of a bound variable's first slot as
// observed at execute time, keyed by statement text and placeholder
// position.
type BoundBytes struct {
	SQL   string
	Pos   uint32
	Value []byte
}

type kind int

const (
	kindContext kind = iota
	kindPool
	kindConn
	kindStmt
	kindVar
	kindRowid
)

func (k kind) String() string {
	switch k {
	case kindContext:
		return "context"
	case kindPool:
		return "pool"
	case kindConn:
		return "connection"
	case kindStmt:
		return "statement"
	case kindVar:
		return "variable"
	case kindRowid:
		return "rowid"
	default:
		return "unknown"
	}
}

type object struct {
	kind kind
	refs int
	ctx  driver.Handle

	// statement state
	sql       string
	script    *Script
	executed  bool
	exhausted bool
	rowIdx    int
	colSlots  []driver.Data
	binds     map[uint32]driver.Handle

	// variable state
	typ          driver.NativeType
	maxArraySize uint32
	numElements  uint32
	sizeBytes    uint32
	slots        []driver.Data

	// rowid state
	rowidText string
}

type slot struct {
	typ  driver.NativeType
	null bool
	v    any
}

// Mock simulates the native driver with scripted result sets, injectable
// failures, and per-handle reference counting.
type Mock struct {
	mu       sync.Mutex
	cfg      Config
	next     uintptr
	objects  map[driver.Handle]*object
	slots    map[driver.Data]*slot
	lastErr  map[driver.Handle]driver.ErrorInfo
	failNext map[string]driver.ErrorInfo

	// BindCalls records every StmtBindByPos call in order.
	BindCalls []BindCall

	// SetBytesCalls records every VarSetFromBytes call in order.
	SetBytesCalls []SetBytesCall

	// ExecutedBinds snapshots the first slot of every byte variable bound to
	// a statement at the moment the statement executes.
	ExecutedBinds []BoundBytes

	// Commits counts ConnCommit calls.
	Commits int
}

// New creates a new Mock based on the provided Config.
func New(cfg Config) *Mock {
	return &Mock{
		cfg:      cfg,
		objects:  make(map[driver.Handle]*object),
		slots:    make(map[driver.Data]*slot),
		lastErr:  make(map[driver.Handle]driver.ErrorInfo),
		failNext: make(map[string]driver.ErrorInfo),
	}
}

var _ driver.Driver = (*Mock)(nil)

// FailNext makes the next call to the named Driver method (for example
// "StmtExecute") fail with the given record.
func (m *Mock) FailNext(fn string, info driver.ErrorInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext[fn] = info
}

// RefCount returns the current reference count for a handle, or zero when
// the handle has been fully released.
func (m *Mock) RefCount(h driver.Handle) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[h]
	if !ok {
		return 0
	}
	return obj.refs
}

// LiveHandles returns the number of handles that have not been fully
// released, contexts included.
func (m *Mock) LiveHandles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// VarBytes returns the byte content of one variable slot, for asserting what
// the native layer would see.
func (m *Mock) VarBytes(v driver.Handle, pos uint32) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(v, kindVar, "VarBytes")
	s := m.slots[obj.slots[pos]]
	if s.null {
		return nil
	}
	return s.v.([]byte)
}

func (m *Mock) newHandle() driver.Handle {
	m.next++
	return driver.Handle(m.next)
}

func (m *Mock) newData(typ driver.NativeType) driver.Data {
	m.next++
	d := driver.Data(m.next)
	m.slots[d] = &slot{typ: typ, null: true}
	return d
}

func (m *Mock) mustObject(h driver.Handle, k kind, fn string) *object {
	obj, ok := m.objects[h]
	if !ok {
		panic(fmt.Sprintf("mock: %s on unknown or released handle %d", fn, h))
	}
	if obj.kind != k {
		panic(fmt.Sprintf("mock: %s on %s handle %d", fn, obj.kind, h))
	}
	return obj
}

func (m *Mock) mustSlot(d driver.Data, fn string) *slot {
	s, ok := m.slots[d]
	if !ok {
		panic(fmt.Sprintf("mock: %s on unknown data token %d", fn, d))
	}
	return s
}

// fail records info as the context's last error and returns StatusFailure.
func (m *Mock) fail(ctx driver.Handle, info driver.ErrorInfo) driver.Status {
	m.lastErr[ctx] = info
	return driver.StatusFailure
}

func (m *Mock) failf(ctx driver.Handle, fn, format string, args ...any) driver.Status {
	return m.fail(ctx, driver.ErrorInfo{
		Code:    -1,
		Message: fmt.Sprintf(format, args...),
		FnName:  fn,
	})
}

// takeFail consumes a FailNext entry for fn, if present.
func (m *Mock) takeFail(ctx driver.Handle, fn string) (driver.Status, bool) {
	info, ok := m.failNext[fn]
	if !ok {
		return driver.StatusOK, false
	}
	delete(m.failNext, fn)
	return m.fail(ctx, info), true
}

func (m *Mock) addRef(h driver.Handle, k kind, fn string) driver.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.mustObject(h, k, fn)
	obj.refs++
	return driver.StatusOK
}

func (m *Mock) release(h driver.Handle, k kind, fn string) driver.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseLocked(h, k, fn)
	return driver.StatusOK
}

func (m *Mock) releaseLocked(h driver.Handle, k kind, fn string) {
	obj := m.mustObject(h, k, fn)
	obj.refs--
	if obj.refs > 0 {
		return
	}
	for _, d := range obj.colSlots {
		m.dropSlot(d)
	}
	for _, d := range obj.slots {
		m.dropSlot(d)
	}
	delete(m.objects, h)
}

// dropSlot frees a data slot, releasing a rowid the slot owns.
func (m *Mock) dropSlot(d driver.Data) {
	s, ok := m.slots[d]
	if !ok {
		return
	}
	if s.typ == driver.NativeTypeRowid && !s.null {
		if rh, ok := s.v.(driver.Handle); ok {
			m.releaseLocked(rh, kindRowid, "dropSlot")
		}
	}
	delete(m.slots, d)
}
