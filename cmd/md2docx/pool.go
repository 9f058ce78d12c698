package main

import (
	md2docx "github.com/alnah/go-md2docx"
)

// poolAdapter exposes md2docx.ConverterPool through the Pool interface.
type poolAdapter struct {
	pool *md2docx.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// newConverterPool is the production Pool factory.
func newConverterPool(size int, opts ...md2docx.Option) Pool {
	return &poolAdapter{pool: md2docx.NewConverterPool(size, opts...)}
}

func (a *poolAdapter) Acquire() (CLIConverter, error) {
	conv, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release returns conv to the pool. Converters from elsewhere are ignored.
func (a *poolAdapter) Release(conv CLIConverter) {
	if c, ok := conv.(*md2docx.Converter); ok {
		a.pool.Release(c)
	}
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
