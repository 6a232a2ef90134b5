/*
Package ora is the resource binding layer over the native Oracle client
driver.

Each wrapper type owns exactly one opaque native handle and manages its
lifetime through the driver's reference counting: Clone registers an
independent co-owner, Close releases this instance's reference, and the
native resource is freed when the last co-owner closes. Using a wrapper
after Close is a programming error and panics; it is never reported as a
recoverable failure.

Every fallible operation returns *Error, the single error kind of this
layer. Errors originate either from the native driver (carrying its
structured error record) or from a locally detected precondition, in which
case only a context description is present.

The layer is a synchronous wrapper over synchronous native calls: it adds no
goroutines, locks, or timeouts. Distinct connections may be used from
distinct goroutines when the underlying driver allows it, but a single
wrapper instance must not be shared between goroutines without external
synchronization.
*/
package ora
