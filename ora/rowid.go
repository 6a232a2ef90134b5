package ora

import "github.com/sqlsqrt/sqlsqrt/driver"

// RowID is a reference-counted handle to a native row-address value. Row ids
// are produced only by the driver; the textual form is derived from the
// handle once per instance and never mutated afterwards.
type RowID struct {
	d   driver.Driver
	ref ref
	str string
}

// wrapRowID adopts a driver-owned row id, registering this wrapper as a
// co-owner, and caches the textual form.
func wrapRowID(d driver.Driver, h driver.Handle) *RowID {
	d.RowidAddRef(h)
	r := &RowID{d: d, ref: newRef(h, "row id", refFuncs{d.RowidAddRef, d.RowidRelease})}
	r.str = r.loadString()
	return r
}

// Clone registers a new co-owner. The cached text is recomputed from the
// handle rather than copied: it is derived data, not independent state.
func (r *RowID) Clone() *RowID {
	n := &RowID{d: r.d, ref: r.ref.clone()}
	n.str = n.loadString()
	return n
}

// Close releases this instance's reference.
func (r *RowID) Close() {
	r.ref.close()
}

// String returns the cached textual form of the row address.
func (r *RowID) String() string {
	return r.str
}

func (r *RowID) loadString() string {
	s, st := r.d.RowidStringValue(r.ref.mustLive())
	if st != driver.StatusOK {
		return ""
	}
	return s
}
