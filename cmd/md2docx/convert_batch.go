package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	md2docx "github.com/alnah/go-md2docx"
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input md2docx.Input) (*md2docx.ConvertResult, error)
	StartBrowser(ctx context.Context) error
}

// Compile-time interface implementation check.
var _ CLIConverter = (*md2docx.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
	Close() error
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Warnings   []error
	Err        error
	Duration   time.Duration
}

// convertBatch processes files concurrently using the converter pool.
// Results keep the order of files.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				// Converter creation failed, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath:  files[idx].InputPath,
						OutputPath: files[idx].OutputPath,
						Err:        err,
					}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath:  files[idx].InputPath,
						OutputPath: files[idx].OutputPath,
						Err:        ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadMarkdown, err))
	}

	// Surface a missing browser as an error instead of diagram markers
	if params.diagrams && md2docx.Parse(string(content)).HasDiagrams() {
		if err := conv.StartBrowser(ctx); err != nil {
			return fail(err)
		}
	}

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: creating output directory: %v", ErrWriteDOCX, err))
	}

	convResult, err := conv.Convert(ctx, md2docx.Input{
		Markdown:        string(content),
		Page:            params.page,
		ShowLineNumbers: params.showLineNumbers,
		Images:          params.images,
		CleanCJK:        params.cleanCJK,
		Layout:          params.layout,
	})
	if err != nil {
		return fail(err)
	}
	for _, w := range convResult.Warnings {
		params.logger.Warn().Str("file", f.InputPath).Err(w).Msg("conversion warning")
	}
	result.Warnings = convResult.Warnings

	// #nosec G306 -- documents are meant to be readable
	if err := os.WriteFile(f.OutputPath, convResult.DOCX, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteDOCX, err))
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results using the provided
// writers. It returns the failure count and the first failure.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) (int, error) {
	summary := countResults(results)
	var firstErr error

	for _, r := range results {
		if r.Err != nil {
			if firstErr == nil {
				firstErr = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed, firstErr
}
