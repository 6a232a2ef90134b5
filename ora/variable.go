package ora

import (
	"github.com/sqlsqrt/sqlsqrt/driver"
)

// Var is a reference-counted handle to a native array of typed storage
// slots, usable either as bind input or as a typed output buffer. The
// element type tag is fixed at creation and shared by every slot.
type Var struct {
	env       *Env
	typ       driver.NativeType
	ref       ref
	allocated []Cell
}

func newVar(env *Env, typ driver.NativeType, h driver.Handle, allocated []Cell) *Var {
	return &Var{
		env:       env,
		typ:       typ,
		ref:       newRef(h, "variable", refFuncs{env.d.VarAddRef, env.d.VarRelease}),
		allocated: allocated,
	}
}

// Clone registers this instance as an additional co-owner of the variable.
// The clone shares the slot views, which address the same native storage.
func (v *Var) Clone() *Var {
	return &Var{env: v.env, typ: v.typ, ref: v.ref.clone(), allocated: v.allocated}
}

// Close releases this instance's reference.
func (v *Var) Close() {
	v.ref.close()
}

// NativeType returns the element type tag shared by every slot.
func (v *Var) NativeType() driver.NativeType {
	return v.typ
}

// SetBytes copies byte data into the slot at pos. Values at or above the
// native protocol's maximum single-value size are rejected before the
// native call.
func (v *Var) SetBytes(pos uint32, value []byte) error {
	if err := checkThat(len(value) < driver.MaxBytesSize,
		"cannot set variable from a value of 1GiB or larger"); err != nil {
		return err
	}
	st := v.env.d.VarSetFromBytes(v.ref.mustLive(), pos, value)
	return v.env.check(st, "copying byte data into variable")
}

// SetStmt binds a cursor into the slot at pos, for ref-cursor parameters.
func (v *Var) SetStmt(pos uint32, stmt *Stmt) error {
	st := v.env.d.VarSetFromStmt(v.ref.mustLive(), pos, stmt.ref.mustLive())
	return v.env.check(st, "copying statement into variable")
}

// SetRowID binds a row address into the slot at pos.
func (v *Var) SetRowID(pos uint32, rowid *RowID) error {
	st := v.env.d.VarSetFromRowid(v.ref.mustLive(), pos, rowid.ref.mustLive())
	return v.env.check(st, "copying row id into variable")
}

// CopyFrom copies one slot's native representation from a variable of
// compatible type.
func (v *Var) CopyFrom(other *Var, destPos, srcPos uint32) error {
	st := v.env.d.VarCopyData(v.ref.mustLive(), destPos, other.ref.mustLive(), srcPos)
	return v.env.check(st, "copying between variables")
}

// NumElements reports the driver's element count, which can differ from the
// allocated array size after array operations.
func (v *Var) NumElements() (uint32, error) {
	n, st := v.env.d.VarNumElements(v.ref.mustLive())
	if err := v.env.check(st, "getting variable element count"); err != nil {
		return 0, err
	}
	return n, nil
}

// SizeInBytes reports the native storage size of the variable.
func (v *Var) SizeInBytes() (uint32, error) {
	n, st := v.env.d.VarSizeInBytes(v.ref.mustLive())
	if err := v.env.check(st, "getting variable size"); err != nil {
		return 0, err
	}
	return n, nil
}

// ReturnedData retrieves the driver's output array for array-bind use,
// materializing a fresh cell per returned element with the variable's
// element type tag.
func (v *Var) ReturnedData(pos uint32) ([]Cell, error) {
	slots, st := v.env.d.VarReturnedData(v.ref.mustLive(), pos)
	if err := v.env.check(st, "getting returned data from variable"); err != nil {
		return nil, err
	}
	cells := make([]Cell, len(slots))
	for i, d := range slots {
		cells[i] = Cell{typ: v.typ, data: d, d: v.env.d}
	}
	return cells, nil
}

// AllocatedData exposes the slot views created at construction time, one per
// allocated element. Their validity is tied to the variable's lifetime.
func (v *Var) AllocatedData() []Cell {
	return v.allocated
}
