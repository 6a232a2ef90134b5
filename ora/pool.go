package ora

import "github.com/sqlsqrt/sqlsqrt/driver"

// Pool issues connections from a shared native pool. A Pool has a single
// owner: it has no Clone, and must not be shared the way the
// reference-counted wrappers are.
type Pool struct {
	env  *Env
	pool driver.Handle
}

// NewPool creates a connection pool bound to one environment.
func NewPool(env *Env, opts ConnOptions) (*Pool, error) {
	h, st := env.d.PoolCreate(env.ctx, opts.Username, opts.Password, opts.ConnString)
	if err := env.check(st, "creating connection pool"); err != nil {
		return nil, err
	}
	return &Pool{env: env, pool: h}, nil
}

// Acquire blocks, per the driver's semantics, until a pooled connection is
// available. Session attributes beyond the pool's defaults are not
// specified.
func (p *Pool) Acquire() (*Conn, error) {
	if p.pool == 0 {
		panic("ora: use of closed pool")
	}
	h, st := p.env.d.PoolAcquireConn(p.pool)
	if err := p.env.check(st, "acquiring pooled connection"); err != nil {
		return nil, err
	}
	return newConn(p.env, h), nil
}

// Close releases the native pool. Connections already acquired stay valid
// until their own co-owners close them.
func (p *Pool) Close() {
	if p.pool == 0 {
		return
	}
	p.env.d.PoolRelease(p.pool)
	p.pool = 0
}
