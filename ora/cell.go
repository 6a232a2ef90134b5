package ora

import "github.com/sqlsqrt/sqlsqrt/driver"

// Cell is a typed, non-owning view over one native data slot: either a live
// query column or one element of a variable array.
//
// A cell's validity window ends when the owning statement's cursor advances
// again or the owning variable is closed. Holding a cell beyond that window
// is undefined; it is a documented precondition, not something checked at
// runtime.
//
// The projection methods perform no coercion: each one requires the stored
// tag to match and fails otherwise, so a caller must know or discover the
// native type before choosing a projection.
type Cell struct {
	typ  driver.NativeType
	data driver.Data
	d    driver.Driver
}

// NativeType reports the stored type tag.
func (c Cell) NativeType() driver.NativeType {
	return c.typ
}

// IsNull reports the native null flag.
func (c Cell) IsNull() bool {
	return c.d.DataIsNull(c.data)
}

// Bool projects a boolean-tagged slot.
func (c Cell) Bool() (bool, error) {
	if err := checkThat(c.typ == driver.NativeTypeBoolean, "value for column is not bool"); err != nil {
		return false, err
	}
	return c.d.DataGetBool(c.data), nil
}

// Int64 projects a signed-integer-tagged slot.
func (c Cell) Int64() (int64, error) {
	if err := checkThat(c.typ == driver.NativeTypeInt64, "value for column is not int64"); err != nil {
		return 0, err
	}
	return c.d.DataGetInt64(c.data), nil
}

// Uint64 projects an unsigned-integer-tagged slot.
func (c Cell) Uint64() (uint64, error) {
	if err := checkThat(c.typ == driver.NativeTypeUint64, "value for column is not uint64"); err != nil {
		return 0, err
	}
	return c.d.DataGetUint64(c.data), nil
}

// Float32 projects a single-precision-tagged slot.
func (c Cell) Float32() (float32, error) {
	if err := checkThat(c.typ == driver.NativeTypeFloat, "value for column is not float"); err != nil {
		return 0, err
	}
	return c.d.DataGetFloat(c.data), nil
}

// Float64 projects a double-precision-tagged slot.
func (c Cell) Float64() (float64, error) {
	if err := checkThat(c.typ == driver.NativeTypeDouble, "value for column is not double"); err != nil {
		return 0, err
	}
	return c.d.DataGetDouble(c.data), nil
}

// Timestamp projects a timestamp-tagged slot. The record points into
// driver-managed memory and shares the cell's validity window.
func (c Cell) Timestamp() (*driver.Timestamp, error) {
	if err := checkThat(c.typ == driver.NativeTypeTimestamp, "value for column is not timestamp"); err != nil {
		return nil, err
	}
	return c.d.DataGetTimestamp(c.data), nil
}

// Bytes projects a bytes-tagged slot. The slice aliases driver-managed
// memory and shares the cell's validity window.
func (c Cell) Bytes() ([]byte, error) {
	if err := checkThat(c.typ == driver.NativeTypeBytes, "value for column is not bytes"); err != nil {
		return nil, err
	}
	return c.d.DataGetBytes(c.data), nil
}

// RowID projects a rowid-tagged slot, wrapping the driver-produced row
// address as an owned handle. Unlike the other projections the result
// outlives the cell: the wrapper co-owns the native row id.
func (c Cell) RowID() (*RowID, error) {
	if err := checkThat(c.typ == driver.NativeTypeRowid, "value for column is not rowid"); err != nil {
		return nil, err
	}
	return wrapRowID(c.d, c.d.DataGetRowid(c.data)), nil
}
