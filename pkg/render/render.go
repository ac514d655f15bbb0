// Package render holds what every document renderer shares: output format
// selection and the day-cell shading colour.
package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output document format.
type Format string

// Supported formats.
const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// ErrUnknownFormat is returned when no renderer handles the requested format.
var ErrUnknownFormat = errors.New("unknown output format")

// FormatFor returns override when set, otherwise the format implied by the
// extension of path.
func FormatFor(path, override string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(override))
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	switch name {
	case "pdf":
		return FormatPDF, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Fixed green and blue channels of the shading colour.
const shadeChannel = 0xCC

// RGB is an 8-bit colour.
type RGB struct {
	R, G, B uint8
}

// Shade returns the background of an event day: the intensity drives the
// red channel, green and blue stay at 0xCC.
func Shade(intensity int) RGB {
	return RGB{R: uint8(min(max(intensity, 0), 0xFF)), G: shadeChannel, B: shadeChannel}
}

// Hex formats c as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
