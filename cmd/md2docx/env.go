package main

import (
	"io"
	"os"
	"time"

	md2docx "github.com/alnah/go-md2docx"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and the converter pool factory.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	NewPool func(size int, opts ...md2docx.Option) Pool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		NewPool: newConverterPool,
	}
}
