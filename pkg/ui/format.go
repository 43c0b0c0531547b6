package ui

import (
	"math"
	"strconv"
	"strings"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders n with 1024-based units, at most two decimals and no
// trailing zeros. Sizes beyond GB stay in GB.
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}

	i := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	i = min(i, len(sizeUnits)-1)

	v := float64(n) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// Icon identifies the kind of a listed file
type Icon string

const (
	IconCode    Icon = "code"
	IconPalette Icon = "palette"
	IconScript  Icon = "file-code"
	IconImage   Icon = "image"
	IconFile    Icon = "file"
)

// IconFor picks the icon for a MIME type
func IconFor(mimeType string) Icon {
	switch {
	case strings.Contains(mimeType, "html"):
		return IconCode
	case strings.Contains(mimeType, "css"):
		return IconPalette
	case strings.Contains(mimeType, "javascript"):
		return IconScript
	case strings.Contains(mimeType, "image"):
		return IconImage
	default:
		return IconFile
	}
}

// Glyph returns a terminal symbol for the icon
func (i Icon) Glyph() string {
	switch i {
	case IconCode:
		return "</>"
	case IconPalette:
		return "🎨"
	case IconScript:
		return "{ }"
	case IconImage:
		return "🖼"
	default:
		return "📄"
	}
}
