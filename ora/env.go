package ora

import (
	"fmt"
	"os"

	"github.com/sqlsqrt/sqlsqrt/driver"
)

// fatal terminates the process. Overridden in tests; there is no code path
// that recovers from a half-torn-down driver context.
var fatal = func(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// Env is the process-wide native library context. It is created once at
// startup, owns no per-connection state, and is destroyed exactly once at
// shutdown.
type Env struct {
	d   driver.Driver
	ctx driver.Handle
}

// NewEnv initializes the native library at the declared interface version.
// It is the sole constructor for Env.
func NewEnv(d driver.Driver) (*Env, error) {
	ctx, info, st := d.ContextCreate(driver.MajorVersion, driver.MinorVersion)
	if err := checkInfo(st, info, "creating driver context"); err != nil {
		return nil, err
	}
	return &Env{d: d, ctx: ctx}, nil
}

// Close destroys the native context. A teardown failure aborts the process:
// no caller can continue meaningfully with a broken global environment.
// Closing twice is a programming error and panics.
func (e *Env) Close() {
	if e.ctx == 0 {
		panic("ora: environment already closed")
	}
	if st := e.d.ContextDestroy(e.ctx); st != driver.StatusOK {
		info := e.lastError()
		fatal("ora: driver context teardown failed: %s", info.Message)
		return
	}
	e.ctx = 0
}

// lastError fetches the driver's last-error record for this context.
func (e *Env) lastError() driver.ErrorInfo {
	return e.d.ContextGetError(e.ctx)
}

// check is the choke point translating a native status code into the layer's
// error model. A raw status never escapes the package.
func (e *Env) check(st driver.Status, context string) error {
	if st == driver.StatusOK {
		return nil
	}
	return newError(e.lastError(), context)
}
