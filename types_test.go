package md2docx

import (
	"errors"
	"slices"
	"testing"

	"github.com/alnah/go-md2docx/internal/docx"
)

func TestPageSettingsFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		preset  string
		want    PageSettings
		wantErr error
	}{
		{name: "book", preset: "book", want: PageSettings{WidthCm: 17, HeightCm: 23}},
		{name: "a4", preset: "a4", want: PageSettings{WidthCm: 21, HeightCm: 29.7}},
		{name: "a5", preset: "a5", want: PageSettings{WidthCm: 14.8, HeightCm: 21}},
		{name: "b5", preset: "b5", want: PageSettings{WidthCm: 17.6, HeightCm: 25}},
		{name: "case and space insensitive", preset: " A4 ", want: PageSettings{WidthCm: 21, HeightCm: 29.7}},
		{name: "unknown", preset: "letter", wantErr: ErrInvalidPageSize},
		{name: "empty", preset: "", wantErr: ErrInvalidPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := PageSettingsFor(tt.preset)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("PageSettingsFor(%q) error = %v, want %v", tt.preset, err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if *got != tt.want {
				t.Errorf("PageSettingsFor(%q) = %+v, want %+v", tt.preset, *got, tt.want)
			}
		})
	}
}

func TestPageSettingsFor_ReturnsCopy(t *testing.T) {
	t.Parallel()

	p, err := PageSettingsFor(PageBook)
	if err != nil {
		t.Fatal(err)
	}
	p.WidthCm = 99

	if got := DefaultPageSettings().WidthCm; got != 17 {
		t.Errorf("mutating a preset changed the default width to %v", got)
	}
}

func TestPageSizes(t *testing.T) {
	t.Parallel()

	want := []string{"a4", "a5", "b5", "book"}
	if got := PageSizes(); !slices.Equal(got, want) {
		t.Errorf("PageSizes() = %v, want %v", got, want)
	}
}

func TestPageSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    *PageSettings
		wantErr error
	}{
		{name: "nil uses defaults", page: nil},
		{name: "book", page: DefaultPageSettings()},
		{name: "lower bound", page: &PageSettings{WidthCm: MinPageCm, HeightCm: MinPageCm}},
		{name: "upper bound", page: &PageSettings{WidthCm: MaxPageCm, HeightCm: MaxPageCm}},
		{name: "zero width", page: &PageSettings{HeightCm: 20}, wantErr: ErrInvalidPageSize},
		{name: "narrow", page: &PageSettings{WidthCm: 9.99, HeightCm: 20}, wantErr: ErrInvalidPageSize},
		{name: "below margins", page: &PageSettings{WidthCm: 5, HeightCm: 20}, wantErr: ErrInvalidPageSize},
		{name: "tall", page: &PageSettings{WidthCm: 20, HeightCm: 100.01}, wantErr: ErrInvalidPageSize},
		{name: "negative", page: &PageSettings{WidthCm: -21, HeightCm: 29.7}, wantErr: ErrInvalidPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := tt.page.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     GenerateConfig
		wantErr error
	}{
		{name: "zero value", cfg: GenerateConfig{}},
		{name: "explicit page", cfg: GenerateConfig{WidthCm: 21, HeightCm: 29.7}},
		{name: "one dimension set", cfg: GenerateConfig{WidthCm: 21}, wantErr: ErrInvalidPageSize},
		{name: "registry ok", cfg: GenerateConfig{Images: map[string][]byte{"a.png": {1}}}},
		{name: "registry empty id", cfg: GenerateConfig{Images: map[string][]byte{"": {1}}}, wantErr: ErrInvalidImageRegistry},
		{name: "registry empty data", cfg: GenerateConfig{Images: map[string][]byte{"a.png": {}}}, wantErr: ErrInvalidImageRegistry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := tt.cfg.validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPageSettings_SmallestPageHasContentArea(t *testing.T) {
	t.Parallel()

	page := docx.NewPage(MinPageCm, MinPageCm)
	if got, want := page.ContentWidth(), docx.CmToTwips(4.5); got < want {
		t.Errorf("ContentWidth() at %.0fcm = %d twips, want at least %d", MinPageCm, got, want)
	}
	if got, want := page.Height-page.MarginTop-page.MarginBottom, docx.CmToTwips(4.5); got < want {
		t.Errorf("content height at %.0fcm = %d twips, want at least %d", MinPageCm, got, want)
	}
}
