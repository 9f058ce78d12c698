package md2docx

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps converter instances; each may own a browser
	// (~200MB) once it meets a diagram.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ConverterPool manages a pool of Converter instances for parallel
// processing. Each converter has its own browser, enabling true
// parallelism for diagram rendering. Converters are created lazily on
// first acquire to avoid startup delay.
type ConverterPool struct {
	size       int
	opts       []Option
	converters []*Converter
	sem        chan *Converter
	mu         sync.Mutex
	created    int
	closed     bool
}

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("converter pool is closed")

// NewConverterPool creates a pool with capacity for n converters, each
// built with opts. Converters are created when acquired, not here.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	if n < 1 {
		n = 1
	}

	return &ConverterPool{
		size:       n,
		opts:       opts,
		converters: make([]*Converter, 0, n),
		sem:        make(chan *Converter, n),
	}
}

// Acquire gets a converter from the pool, creating one if needed.
// Blocks if all converters are in use. A creation failure frees the slot
// and is returned.
func (p *ConverterPool) Acquire() (*Converter, error) {
	// Try to get an existing converter (non-blocking)
	select {
	case conv, ok := <-p.sem:
		if !ok || p.isClosed() {
			return nil, ErrPoolClosed
		}
		return conv, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create new converter outside the lock
		conv, err := NewConverter(p.opts...)

		p.mu.Lock()
		defer p.mu.Unlock()
		if err != nil {
			p.created--
			return nil, err
		}
		p.converters = append(p.converters, conv)
		return conv, nil
	}
	p.mu.Unlock()

	// All converters created, wait for one to be released
	conv, ok := <-p.sem
	if !ok || p.isClosed() {
		return nil, ErrPoolClosed
	}
	return conv, nil
}

// isClosed reports whether Close has run. A closed channel still yields
// its buffered converters, which are already shut down.
func (p *ConverterPool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Release returns a converter to the pool. The send happens under the lock
// so a concurrent Close cannot close the channel in between; the buffer
// holds every converter the pool created, so it never blocks.
func (p *ConverterPool) Release(conv *Converter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || conv == nil {
		return
	}
	select {
	case p.sem <- conv:
	default:
	}
}

// Close releases all browser resources.
// Returns an aggregated error if multiple converters fail to close.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	converters := p.converters
	p.mu.Unlock()

	var errs []error
	for _, conv := range converters {
		if err := conv.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
