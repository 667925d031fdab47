package display

import (
	"fmt"
	"regexp"
)

// Theme holds the display colours as "#rrggbb" strings.
type Theme struct {
	Text       string `mapstructure:"text"`
	Background string `mapstructure:"background"`
	Bar        string `mapstructure:"bar"`
}

// DefaultTheme returns the stock loader colours.
func DefaultTheme() Theme {
	return Theme{
		Text:       "#323232",
		Background: "#cfcfcf",
		Bar:        "#276ccc",
	}
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks that every colour is a "#rrggbb" string.
func (t Theme) Validate() error {
	for name, c := range map[string]string{"text": t.Text, "background": t.Background, "bar": t.Bar} {
		if !hexColor.MatchString(c) {
			return fmt.Errorf("theme colour %s: %q is not a #rrggbb value", name, c)
		}
	}
	return nil
}

// WithDefaults fills empty colours from DefaultTheme.
func (t Theme) WithDefaults() Theme {
	def := DefaultTheme()
	if t.Text == "" {
		t.Text = def.Text
	}
	if t.Background == "" {
		t.Background = def.Background
	}
	if t.Bar == "" {
		t.Bar = def.Bar
	}
	return t
}
