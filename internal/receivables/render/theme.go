package render

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Theme carries the report palette as RGB hex strings without the leading
// hash. It is explicit renderer configuration, not shared module state.
type Theme struct {
	Primary     string `yaml:"primary"`
	Secondary   string `yaml:"secondary"`
	Head        string `yaml:"head"`
	BgSoft      string `yaml:"bg_soft"`
	Alt         string `yaml:"alt"`
	Line        string `yaml:"line"`
	Ink         string `yaml:"ink"`
	Muted       string `yaml:"muted"`
	TotalFill   string `yaml:"total_fill"`
	OverdueFill string `yaml:"overdue_fill"`
}

// DefaultTheme returns the stock palette.
func DefaultTheme() Theme {
	return Theme{
		Primary:     "2E86AB",
		Secondary:   "A7C957",
		Head:        "2E86AB",
		BgSoft:      "F8FAFC",
		Alt:         "F8F9FA",
		Line:        "D1D5DB",
		Ink:         "1F2937",
		Muted:       "6B7280",
		TotalFill:   "D1EFB5",
		OverdueFill: "FDE68A",
	}
}

// LoadTheme reads a yaml theme file over the defaults. An empty path keeps
// the defaults.
func LoadTheme(path string) (Theme, error) {
	theme := DefaultTheme()
	if path == "" {
		return theme, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return theme, err
	}
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return theme, fmt.Errorf("theme config: %w", err)
	}
	return theme, nil
}

// rgb splits a hex color into its components for gofpdf.
func rgb(hex string) (int, int, int) {
	if len(hex) != 6 {
		return 0, 0, 0
	}
	r, _ := strconv.ParseInt(hex[0:2], 16, 32)
	g, _ := strconv.ParseInt(hex[2:4], 16, 32)
	b, _ := strconv.ParseInt(hex[4:6], 16, 32)
	return int(r), int(g), int(b)
}
