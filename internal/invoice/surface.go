package invoice

// Surface is the page-drawing capability the renderer writes to. Coordinates are in
// points from the top-left corner of the page; y grows downwards.
type Surface interface {
	// Text places a single line with its top edge at y, aligned inside [x, x+width].
	Text(x, y float64, text string, style TextStyle)
	// Rect draws a rectangle filled and/or stroked according to style.
	Rect(x, y, width, height float64, style RectStyle)
	// Line draws a straight rule.
	Line(x1, y1, x2, y2, width float64)
	// Image draws img with its top-left corner at (x, y), scaled to width.
	Image(img Image, x, y, width float64)
	// Close finalises the document and flushes it to the underlying writer.
	Close() error
}

// Align selects horizontal text alignment within a text box.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// TextStyle controls how a text line is placed.
type TextStyle struct {
	Size  float64
	Width float64
	Align Align
}

// Color is an RGB colour.
type Color struct {
	R uint8
	G uint8
	B uint8
}

var (
	Black     = Color{}
	LightGray = Color{R: 0xcc, G: 0xcc, B: 0xcc}
)

// RectStyle describes rectangle painting. A nil Fill or Stroke skips that operation.
type RectStyle struct {
	Fill      *Color
	Stroke    *Color
	LineWidth float64
}

// Image is an embedded raster asset.
type Image struct {
	Name string
	Type string
	Data []byte
}
