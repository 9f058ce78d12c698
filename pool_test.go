package md2docx

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire() (*Converter, error)
	Release(*Converter)
	Size() int
	Close() error
} = (*ConverterPool)(nil)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit=1 for sequential",
			workers: 1,
			want:    1,
		},
		{
			name:    "explicit can exceed max",
			workers: 16,
			want:    16,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
		{
			name:    "negative uses auto calculation",
			workers: -5,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolvePoolSize(tt.workers)
			if got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func newTestPool(t *testing.T, n int) *ConverterPool {
	t.Helper()
	return NewConverterPool(n, WithoutDiagrams())
}

func mustAcquire(t *testing.T, pool *ConverterPool) *Converter {
	t.Helper()
	conv, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if conv == nil {
		t.Fatal("Acquire() returned nil")
	}
	return conv
}

func TestConverterPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)
	defer pool.Close()

	conv1 := mustAcquire(t, pool)
	conv2 := mustAcquire(t, pool)

	if conv1 == conv2 {
		t.Error("expected different converter instances")
	}

	// Release and re-acquire
	pool.Release(conv1)
	conv3 := mustAcquire(t, pool)
	if conv3 != conv1 {
		t.Error("expected to get back released converter")
	}

	pool.Release(conv2)
	pool.Release(conv3)
}

func TestConverterPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"size 1", 1, 1},
		{"size 4", 4, 4},
		{"size 0 becomes 1", 0, 1},
		{"negative becomes 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := newTestPool(t, tt.size)
			defer pool.Close()

			if got := pool.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConverterPool_CreationError(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(1, WithoutDiagrams(), WithTheme("no-such-theme"))
	defer pool.Close()

	for i := 0; i < 2; i++ {
		conv, err := pool.Acquire()
		if !errors.Is(err, ErrThemeNotFound) {
			t.Fatalf("Acquire() #%d error = %v, want ErrThemeNotFound", i+1, err)
		}
		if conv != nil {
			t.Errorf("Acquire() #%d returned a converter with an error", i+1)
		}
	}
}

func TestConverterPool_AcquireAfterClose(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)
	conv := mustAcquire(t, pool)

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Release after close is a no-op
	pool.Release(conv)

	if _, err := pool.Acquire(); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want ErrPoolClosed", err)
	}
}

// TestConverterPool_ReleaseDuringClose races Release against Close; a send
// on the closed channel would panic.
func TestConverterPool_ReleaseDuringClose(t *testing.T) {
	t.Parallel()

	for round := 0; round < 20; round++ {
		pool := newTestPool(t, 4)
		convs := make([]*Converter, 4)
		for i := range convs {
			convs[i] = mustAcquire(t, pool)
		}

		var wg sync.WaitGroup
		start := make(chan struct{})
		for _, conv := range convs {
			wg.Add(1)
			go func(c *Converter) {
				defer wg.Done()
				<-start
				pool.Release(c)
			}(conv)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if err := pool.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		}()

		close(start)
		wg.Wait()

		if _, err := pool.Acquire(); !errors.Is(err, ErrPoolClosed) {
			t.Errorf("Acquire() after Close error = %v, want ErrPoolClosed", err)
		}
	}
}

func TestConverterPool_DoubleClose(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 1)

	if err := pool.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestConverterPool_ReleaseNil(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 1)
	defer pool.Close()

	pool.Release(nil)

	conv := mustAcquire(t, pool)
	pool.Release(conv)
}

func TestConverterPool_AllConvertersAcquired(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 3)
	defer pool.Close()

	seen := make(map[*Converter]bool)
	convs := make([]*Converter, 3)
	for i := range convs {
		convs[i] = mustAcquire(t, pool)
		if seen[convs[i]] {
			t.Error("got duplicate converter from pool")
		}
		seen[convs[i]] = true
	}

	for _, conv := range convs {
		pool.Release(conv)
	}
}

// TestConverterPool_HighContention verifies the pool remains deadlock-free
// with many goroutines cycling through a small pool.
func TestConverterPool_HighContention(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)
	defer pool.Close()

	var wg sync.WaitGroup
	goroutines := 50
	iterations := 10

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				conv, err := pool.Acquire()
				if err != nil {
					t.Errorf("Acquire() error = %v", err)
					return
				}
				time.Sleep(time.Duration(j%3) * time.Millisecond)
				pool.Release(conv)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(30 * time.Second)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		t.Fatal("high contention test timed out - possible deadlock")
	}
}
