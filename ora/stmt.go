package ora

import "github.com/sqlsqrt/sqlsqrt/driver"

// Stmt is a reference-counted handle to a compiled, executable command.
//
// A statement moves through prepared → Execute → executed → Fetch →
// row-available, until Fetch reports no row; from then on the statement is
// exhausted and must be re-executed or discarded.
type Stmt struct {
	env *Env
	ref ref
}

func newStmt(env *Env, h driver.Handle) *Stmt {
	return &Stmt{
		env: env,
		ref: newRef(h, "statement", refFuncs{env.d.StmtAddRef, env.d.StmtRelease}),
	}
}

// Clone registers this instance as an additional co-owner of the statement.
func (s *Stmt) Clone() *Stmt {
	return &Stmt{env: s.env, ref: s.ref.clone()}
}

// Close releases this instance's reference.
func (s *Stmt) Close() {
	s.ref.close()
}

// Execute runs the compiled command. Constraint violations, type
// mismatches, and session errors surface here as *Error.
func (s *Stmt) Execute() error {
	st := s.env.d.StmtExecute(s.ref.mustLive())
	return s.env.check(st, "executing statement")
}

// Fetch advances the cursor one row and reports whether a row was produced.
// Once it returns false the statement is exhausted; further calls keep
// returning false until Execute runs again.
func (s *Stmt) Fetch() (bool, error) {
	found, _, st := s.env.d.StmtFetch(s.ref.mustLive())
	if err := s.env.check(st, "fetching row"); err != nil {
		return false, err
	}
	return found, nil
}

// NumColumns reports the active result set's column count. Valid only after
// Execute.
func (s *Stmt) NumColumns() (uint32, error) {
	n, st := s.env.d.StmtNumQueryColumns(s.ref.mustLive())
	if err := s.env.check(st, "getting column count"); err != nil {
		return 0, err
	}
	return n, nil
}

// ColumnInfo describes the shape of the column at the 1-based position. Its
// validity is tied to the statement's current result set.
func (s *Stmt) ColumnInfo(pos uint32) (ColumnInfo, error) {
	info, st := s.env.d.StmtQueryInfo(s.ref.mustLive(), pos)
	if err := s.env.check(st, "getting column info"); err != nil {
		return ColumnInfo{}, err
	}
	return ColumnInfo{info: info}, nil
}

// ColumnValue returns a view over the column's value slot at the 1-based
// position. The cell is valid only until the next Fetch or statement
// mutation; holding it past that window is undefined.
func (s *Stmt) ColumnValue(pos uint32) (Cell, error) {
	typ, data, st := s.env.d.StmtQueryValue(s.ref.mustLive(), pos)
	if err := s.env.check(st, "getting column value"); err != nil {
		return Cell{}, err
	}
	return Cell{typ: typ, data: data, d: s.env.d}, nil
}

// BindByPos attaches a variable to the positional placeholder before
// Execute. Binding after execution has undefined effect on the subsequent
// run; treat it as a usage precondition.
func (s *Stmt) BindByPos(pos uint32, v *Var) error {
	st := s.env.d.StmtBindByPos(s.ref.mustLive(), pos, v.ref.mustLive())
	return s.env.check(st, "binding variable by position")
}

// ColumnInfo describes one result set column: name, nullability, and
// database type. It is a value borrowed from the statement's current result
// set.
type ColumnInfo struct {
	info driver.QueryInfo
}

// Name returns the column label.
func (ci ColumnInfo) Name() string {
	return ci.info.Name
}

// NullOK reports whether the column admits NULL values.
func (ci ColumnInfo) NullOK() bool {
	return ci.info.NullOK
}

// TypeInfo returns the native type descriptor of the column.
func (ci ColumnInfo) TypeInfo() driver.DataTypeInfo {
	return ci.info.TypeInfo
}
