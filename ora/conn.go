package ora

import "github.com/sqlsqrt/sqlsqrt/driver"

// ConnOptions carries the credentials and target used to authenticate a
// session.
type ConnOptions struct {
	Username   string
	Password   string
	ConnString string
}

// Conn is a reference-counted handle to an authenticated session.
type Conn struct {
	env *Env
	ref ref
}

// Connect authenticates against the target and returns an owned connection.
// Bad credentials, an unreachable target, and protocol mismatches all
// surface as *Error; callers distinguish by inspecting the native error
// code.
func Connect(env *Env, opts ConnOptions) (*Conn, error) {
	h, st := env.d.ConnCreate(env.ctx, opts.Username, opts.Password, opts.ConnString)
	if err := env.check(st, "creating connection"); err != nil {
		return nil, err
	}
	return newConn(env, h), nil
}

func newConn(env *Env, h driver.Handle) *Conn {
	return &Conn{
		env: env,
		ref: newRef(h, "connection", refFuncs{env.d.ConnAddRef, env.d.ConnRelease}),
	}
}

// Clone registers this instance as an additional co-owner of the session.
func (c *Conn) Clone() *Conn {
	return &Conn{env: c.env, ref: c.ref.clone()}
}

// Close releases this instance's reference. The session ends when the last
// co-owner closes.
func (c *Conn) Close() {
	c.ref.close()
}

// Prepare compiles SQL text into an executable statement. Compilation
// errors (syntax, unknown object) surface here, not at execute time.
func (c *Conn) Prepare(sql string) (*Stmt, error) {
	h, st := c.env.d.ConnPrepareStmt(c.ref.mustLive(), sql)
	if err := c.env.check(st, "preparing statement"); err != nil {
		return nil, err
	}
	return newStmt(c.env, h), nil
}

// Commit finalizes the current transaction.
func (c *Conn) Commit() error {
	st := c.env.d.ConnCommit(c.ref.mustLive())
	return c.env.check(st, "committing transaction")
}

// VarSizing selects how the driver sizes a variable's storage: either an
// explicit byte buffer or a native object type descriptor. Exactly one arm
// must be supplied.
type VarSizing interface {
	isVarSizing()
}

// ByteBufferSizing sizes each slot as a byte buffer. When SizeIsBytes is
// false, Size counts characters and the driver expands it.
type ByteBufferSizing struct {
	Size        uint32
	SizeIsBytes bool
}

// ObjectSizing sizes each slot by a native object type descriptor.
type ObjectSizing struct {
	ObjectType driver.Handle
}

func (ByteBufferSizing) isVarSizing() {}
func (ObjectSizing) isVarSizing()     {}

// VarOpts configures a new array variable. NativeType fixes the in-memory
// representation shared by every slot; it determines which typed accessor is
// legal on every cell the variable exposes.
type VarOpts struct {
	OracleType   driver.OracleType
	NativeType   driver.NativeType
	MaxArraySize uint32
	IsArray      bool
	Sizing       VarSizing
}

// NewArrayVar allocates a native variable array of MaxArraySize typed slots,
// usable as bind input or as a typed output buffer.
func (c *Conn) NewArrayVar(opts VarOpts) (*Var, error) {
	var (
		size        uint32
		sizeIsBytes bool
		objType     driver.Handle
	)
	switch s := opts.Sizing.(type) {
	case ByteBufferSizing:
		size = s.Size
		sizeIsBytes = s.SizeIsBytes
	case ObjectSizing:
		objType = s.ObjectType
	default:
		return nil, newContextError("variable options require exactly one of byte-buffer or object sizing")
	}

	h, slots, st := c.env.d.ConnNewVar(c.ref.mustLive(), opts.OracleType, opts.NativeType,
		opts.MaxArraySize, size, sizeIsBytes, opts.IsArray, objType)
	if err := c.env.check(st, "creating variable"); err != nil {
		return nil, err
	}

	cells := make([]Cell, len(slots))
	for i, d := range slots {
		cells[i] = Cell{typ: opts.NativeType, data: d, d: c.env.d}
	}
	return newVar(c.env, opts.NativeType, h, cells), nil
}
