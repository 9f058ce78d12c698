package main

// Notes:
// - This file contains test doubles shared across the command tests.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	md2docx "github.com/alnah/go-md2docx"
)

// ---------------------------------------------------------------------------
// Output capture
// ---------------------------------------------------------------------------

// syncBuffer is a bytes.Buffer safe for the concurrent writes of workers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// ---------------------------------------------------------------------------
// Mock Implementations - Converter and pool
// ---------------------------------------------------------------------------

// fakeDOCX is what fakeConverter writes; it only needs to be recognizable.
var fakeDOCX = []byte("PK\x03\x04fake")

// fakeConverter records inputs and returns canned results.
type fakeConverter struct {
	mu         sync.Mutex
	inputs     []md2docx.Input
	startCalls int

	convertErr error
	startErr   error
	warnings   []error
}

func (f *fakeConverter) Convert(_ context.Context, input md2docx.Input) (*md2docx.ConvertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	if f.convertErr != nil {
		return nil, f.convertErr
	}
	return &md2docx.ConvertResult{DOCX: fakeDOCX, Warnings: f.warnings}, nil
}

func (f *fakeConverter) StartBrowser(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	return f.startErr
}

func (f *fakeConverter) calls() ([]md2docx.Input, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]md2docx.Input(nil), f.inputs...), f.startCalls
}

// fakePool hands out a single shared converter.
type fakePool struct {
	mu         sync.Mutex
	conv       *fakeConverter
	size       int
	acquireErr error
	acquired   int
	released   int
	closed     bool

	// Captured from the factory call.
	requestedSize int
	opts          []md2docx.Option
}

var _ Pool = (*fakePool)(nil)

func newFakePool(size int) *fakePool {
	return &fakePool{conv: &fakeConverter{}, size: size}
}

func (p *fakePool) Acquire() (CLIConverter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired++
	return p.conv, nil
}

func (p *fakePool) Release(CLIConverter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}

func (p *fakePool) Size() int { return p.size }

func (p *fakePool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// Environment and fixtures
// ---------------------------------------------------------------------------

// testEnv returns an Environment writing to buffers whose pool factory
// records its arguments and returns pool.
func testEnv(pool *fakePool) (*Environment, *syncBuffer, *syncBuffer) {
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
		NewPool: func(size int, opts ...md2docx.Option) Pool {
			pool.mu.Lock()
			defer pool.mu.Unlock()
			pool.requestedSize = size
			pool.opts = opts
			return pool
		},
	}
	return env, stdout, stderr
}

// writeFile creates path (and its parents) under t's temp dir.
func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
