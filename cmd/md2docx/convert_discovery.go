package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// docxExt is the extension of every output file.
const docxExt = ".docx"

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all markdown files to convert. A directory is walked
// recursively and its layout mirrored under outputDir.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.IsMarkdown(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the DOCX output path for a markdown file.
// An outputDir ending in .docx names the output file itself.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	base := fileutil.ReplaceExtension(filepath.Base(inputPath), docxExt)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}

	if strings.HasSuffix(strings.ToLower(outputDir), docxExt) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base)
		}
	}

	return filepath.Join(outputDir, base)
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !fileutil.IsMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > md2docx.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, md2docx.MaxPoolSize)
	}
	return nil
}
