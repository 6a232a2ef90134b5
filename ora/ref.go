package ora

import "github.com/sqlsqrt/sqlsqrt/driver"

// refFuncs is the acquire/release pair for one native handle kind.
type refFuncs struct {
	addRef  func(driver.Handle) driver.Status
	release func(driver.Handle) driver.Status
}

// ref manages one reference-counted native handle. It is the single
// implementation of the ownership rules every wrapper follows: clone adds a
// reference and yields an independent co-owner, close releases a non-null
// handle exactly once and nulls it, and any other use of a null handle
// panics.
type ref struct {
	h    driver.Handle
	fns  refFuncs
	kind string
}

func newRef(h driver.Handle, kind string, fns refFuncs) ref {
	return ref{h: h, fns: fns, kind: kind}
}

// mustLive returns the handle, panicking when the instance was closed. Calls
// on closed wrappers are programming errors, not recoverable failures.
func (r *ref) mustLive() driver.Handle {
	if r.h == 0 {
		panic("ora: use of closed " + r.kind)
	}
	return r.h
}

// clone registers a new co-owner with the native reference count.
func (r *ref) clone() ref {
	h := r.mustLive()
	r.fns.addRef(h)
	return ref{h: h, fns: r.fns, kind: r.kind}
}

// close releases this instance's reference. Closing an already closed ref is
// a no-op, matching destruction of a moved-from handle.
func (r *ref) close() {
	if r.h == 0 {
		return
	}
	// Release failure is not reported: the co-owner is gone either way.
	r.fns.release(r.h)
	r.h = 0
}
