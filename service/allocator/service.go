package allocator

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/foamcase/internal/clock"
	"github.com/viant/foamcase/internal/idgen"
	"github.com/viant/foamcase/model/types"
	"golang.org/x/sync/semaphore"
)

// Config represents allocator configuration
type Config struct {
	// Capacity is the total number of reservable CPU units; zero or less
	// selects the host logical processor count.
	Capacity int `json:"cpus,omitempty" yaml:"cpus,omitempty"`
}

// DefaultConfig returns the default allocator configuration
func DefaultConfig() Config {
	return Config{Capacity: runtime.NumCPU()}
}

// Option customises a Pool.
type Option func(p *Pool)

// WithCapacity overrides the pool capacity.
func WithCapacity(capacity int) Option {
	return func(p *Pool) {
		p.capacity = int64(capacity)
	}
}

// WithLogger sets the logger used for lease events.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pool is a bounded set of CPU units shared by every case using it.
type Pool struct {
	capacity int64
	sem      *semaphore.Weighted
	inUse    atomic.Int64
	logger   *slog.Logger
}

// Lease is a held reservation. Release is idempotent.
type Lease struct {
	ID       string
	CPUs     int
	Acquired time.Time
	Waited   time.Duration
	pool     *Pool
	once     sync.Once
}

// Release returns the leased units to the pool.
func (l *Lease) Release() {
	if l == nil {
		return
	}
	l.once.Do(func() {
		if l.CPUs == 0 {
			return
		}
		l.pool.inUse.Add(-int64(l.CPUs))
		l.pool.sem.Release(int64(l.CPUs))
		l.pool.logger.Debug("cpu lease released", "lease", l.ID, "cpus", l.CPUs, "held", clock.Since(l.Acquired))
	})
}

// Acquire blocks until n units are free and returns the lease holding them.
// n == 0 is granted immediately. A request above capacity fails with
// types.ErrNeverSatisfiable; a cancelled wait returns ctx.Err() and holds
// nothing.
func (p *Pool) Acquire(ctx context.Context, n int) (*Lease, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid cpu request: %d", n)
	}
	started := clock.Now()
	lease := &Lease{ID: idgen.New(), CPUs: n, pool: p}
	if n == 0 {
		lease.Acquired = started
		return lease, nil
	}
	if int64(n) > p.capacity {
		return nil, fmt.Errorf("%w: requested %d of %d", types.ErrNeverSatisfiable, n, p.capacity)
	}
	if !p.sem.TryAcquire(int64(n)) {
		p.logger.Debug("waiting for cpus", "lease", lease.ID, "cpus", n, "inUse", p.InUse(), "capacity", p.capacity)
		if err := p.sem.Acquire(ctx, int64(n)); err != nil {
			return nil, err
		}
	}
	p.inUse.Add(int64(n))
	lease.Acquired = clock.Now()
	lease.Waited = lease.Acquired.Sub(started)
	p.logger.Debug("cpu lease granted", "lease", lease.ID, "cpus", n, "waited", lease.Waited)
	return lease, nil
}

// With runs fn while holding n units; the lease is released when fn returns
// or panics.
func (p *Pool) With(ctx context.Context, n int, fn func(ctx context.Context, lease *Lease) error) error {
	lease, err := p.Acquire(ctx, n)
	if err != nil {
		return err
	}
	defer lease.Release()
	return fn(ctx, lease)
}

// Capacity returns the total number of units.
func (p *Pool) Capacity() int {
	return int(p.capacity)
}

// InUse returns the number of units currently leased.
func (p *Pool) InUse() int {
	return int(p.inUse.Load())
}

// New creates a pool
func New(options ...Option) *Pool {
	ret := &Pool{capacity: int64(DefaultConfig().Capacity), logger: slog.Default()}
	for _, option := range options {
		option(ret)
	}
	if ret.capacity <= 0 {
		ret.capacity = int64(runtime.NumCPU())
	}
	ret.sem = semaphore.NewWeighted(ret.capacity)
	return ret
}

// NewFromConfig creates a pool from config
func NewFromConfig(config Config, options ...Option) *Pool {
	return New(append([]Option{WithCapacity(config.Capacity)}, options...)...)
}

var (
	defaultPool     *Pool
	defaultPoolOnce sync.Once
)

// Default returns the process-wide pool sized to the host CPU count.
func Default() *Pool {
	defaultPoolOnce.Do(func() {
		defaultPool = New()
	})
	return defaultPool
}
