package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Alignment is the horizontal alignment of a text block.
type Alignment int

const (
	// AlignLeft aligns text to the left margin. This is the zero value.
	AlignLeft Alignment = iota
	// AlignCenter centers text between the margins.
	AlignCenter
	// AlignRight aligns text to the right margin.
	AlignRight
	// AlignJustify stretches text to both margins.
	AlignJustify
)

// String returns the lower-case name of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "unknown"
	}
}

// ParseAlignment converts a name into an Alignment.
// Matching is case-insensitive; an empty string means AlignLeft.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	case "justify", "justified":
		return AlignJustify, nil
	default:
		return AlignLeft, fmt.Errorf("%w: %q", ErrUnknownAlignment, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Alignment) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Alignment) UnmarshalText(text []byte) error {
	parsed, err := ParseAlignment(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// FontStyle is a set of font style flags.
//
// Design decision: Flags are combined with bitwise OR so that "bold italic"
// is a single value, the same way the PDF core fonts name their variants.
type FontStyle uint8

const (
	// FontBold selects the bold variant.
	FontBold FontStyle = 1 << iota
	// FontItalic selects the italic (oblique) variant.
	FontItalic
	// FontUnderline draws a line under the text.
	FontUnderline
)

// FontNormal is the regular font with no flags set.
const FontNormal FontStyle = 0

// Has reports whether all flags in f are set.
func (s FontStyle) Has(f FontStyle) bool {
	return s&f == f
}

// String returns the flags as a comma-separated list, or "normal".
func (s FontStyle) String() string {
	if s == FontNormal {
		return "normal"
	}
	var parts []string
	if s.Has(FontBold) {
		parts = append(parts, "bold")
	}
	if s.Has(FontItalic) {
		parts = append(parts, "italic")
	}
	if s.Has(FontUnderline) {
		parts = append(parts, "underline")
	}
	return strings.Join(parts, ",")
}

// ParseFontStyle parses a comma, space or pipe separated list of flags.
func ParseFontStyle(s string) (FontStyle, error) {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || r == '|' || r == ' ' || r == '+'
	})

	var style FontStyle
	for _, f := range fields {
		switch f {
		case "normal", "regular":
		case "bold":
			style |= FontBold
		case "italic", "oblique":
			style |= FontItalic
		case "underline":
			style |= FontUnderline
		default:
			return FontNormal, fmt.Errorf("%w: %q", ErrUnknownFontStyle, f)
		}
	}
	return style, nil
}

// MarshalText implements encoding.TextMarshaler.
func (s FontStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *FontStyle) UnmarshalText(text []byte) error {
	parsed, err := ParseFontStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Color is an RGB color with 8-bit channels.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Predefined colors.
var (
	ColorBlack = Color{R: 0, G: 0, B: 0}
	ColorBlue  = Color{R: 0, G: 0, B: 255}
)

// String returns the color in #rrggbb form.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor parses a #rrggbb (or rrggbb) string.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// DefaultFontFamily is the core PDF font used when a style names none.
const DefaultFontFamily = "Helvetica"

// DefaultFontSize is the body text size in points.
const DefaultFontSize = 12

// TextStyle describes how a run of text is drawn.
type TextStyle struct {
	// Family is the font family name. Empty means DefaultFontFamily.
	Family string `yaml:"family,omitempty" json:"family,omitempty"`

	// Size is the font size in points.
	Size float64 `yaml:"size" json:"size"`

	// Style holds the bold/italic/underline flags.
	Style FontStyle `yaml:"style,omitempty" json:"style"`

	// Align is the horizontal alignment of the block.
	Align Alignment `yaml:"align,omitempty" json:"align"`

	// Color is the text color.
	Color Color `yaml:"color,omitempty" json:"color"`
}

// DefaultTextStyle returns 12pt black Helvetica, left aligned.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		Family: DefaultFontFamily,
		Size:   DefaultFontSize,
		Style:  FontNormal,
		Align:  AlignLeft,
		Color:  ColorBlack,
	}
}

// FontFamily returns the family, falling back to DefaultFontFamily.
func (s TextStyle) FontFamily() string {
	if s.Family == "" {
		return DefaultFontFamily
	}
	return s.Family
}

// Validate checks that the style can be rendered.
func (s TextStyle) Validate() error {
	if s.Size <= 0 {
		return ErrInvalidFontSize
	}
	return nil
}
