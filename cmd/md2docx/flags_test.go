package main

// Notes:
// - parseConvertFlags: we test every flag group, short forms, and the
//   help and error paths. pflag's own parsing rules are not re-tested.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseConvertFlags - Flag parsing
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    convertFlags
		wantPos []string
	}{
		{
			name:    "no flags",
			args:    []string{"doc.md"},
			want:    convertFlags{},
			wantPos: []string{"doc.md"},
		},
		{
			name: "short forms",
			args: []string{"-o", "out", "-w", "4", "-t", "1m", "-c", "team", "-q", "-p", "a4", "docs"},
			want: convertFlags{
				common:  commonFlags{config: "team", quiet: true},
				output:  "out",
				workers: 4,
				timeout: "1m",
				page:    pageFlags{size: "a4"},
			},
			wantPos: []string{"docs"},
		},
		{
			name: "long forms",
			args: []string{
				"--verbose", "--width", "20", "--height", "25.5",
				"--no-line-numbers", "--images", "img", "--figure-label", "Abb.", "--toc-title", "Inhalt",
				"--no-diagrams", "--clean-cjk", "--theme", "print", "--asset-path", "assets",
				"a.md",
			},
			want: convertFlags{
				common: commonFlags{verbose: true},
				page:   pageFlags{width: 20, height: 25.5},
				content: contentFlags{
					noLineNumbers: true,
					images:        "img",
					figureLabel:   "Abb.",
					tocTitle:      "Inhalt",
					noDiagrams:    true,
					cleanCJK:      true,
				},
				assets: assetFlags{theme: "print", assetPath: "assets"},
			},
			wantPos: []string{"a.md"},
		},
		{
			name:    "flags after positional",
			args:    []string{"a.md", "--theme", "print"},
			want:    convertFlags{assets: assetFlags{theme: "print"}},
			wantPos: []string{"a.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stderr strings.Builder
			got, pos, err := parseConvertFlags(tt.args, &stderr)
			if err != nil {
				t.Fatalf("parseConvertFlags() error = %v", err)
			}
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("flags = %+v, want %+v", *got, tt.want)
			}
			if !reflect.DeepEqual(pos, tt.wantPos) {
				t.Errorf("positional = %v, want %v", pos, tt.wantPos)
			}
			if stderr.Len() != 0 {
				t.Errorf("stderr = %q, want nothing on success", stderr.String())
			}
		})
	}
}

func TestParseConvertFlags_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "help", args: []string{"--help"}, wantErr: errHelp},
		{name: "short help", args: []string{"-h"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"--css", "x"}, wantErr: ErrUsage},
		{name: "bad number", args: []string{"-w", "many"}, wantErr: ErrUsage},
		{name: "missing value", args: []string{"--theme"}, wantErr: ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stderr strings.Builder
			_, _, err := parseConvertFlags(tt.args, &stderr)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("parseConvertFlags() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(stderr.String(), "Usage: md2docx convert") {
				t.Errorf("stderr = %q, want usage", stderr.String())
			}
		})
	}
}
