// Package pdf implements the invoice drawing surface on top of go-pdf/fpdf.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/evcomfg/invoice-backend/internal/invoice"
)

const (
	defaultFontFamily = "Helvetica"
	defaultPageSize   = "A4"
)

// ErrClosed is returned when a surface is used after Close.
var ErrClosed = errors.New("pdf: surface closed")

// Option customises a Surface.
type Option func(*options)

type options struct {
	fontFamily string
	pageSize   string
	title      string
	author     string
}

// WithFontFamily selects one of the core fonts (Helvetica, Times, Courier).
func WithFontFamily(family string) Option {
	return func(o *options) {
		if family != "" {
			o.fontFamily = family
		}
	}
}

// WithPageSize selects a named page size understood by fpdf.
func WithPageSize(size string) Option {
	return func(o *options) {
		if size != "" {
			o.pageSize = size
		}
	}
}

// WithMetadata sets the document title and author.
func WithMetadata(title, author string) Option {
	return func(o *options) {
		o.title = title
		o.author = author
	}
}

// Surface draws onto a single-page PDF document and writes it to w on Close.
// Coordinates are in points with the origin at the top-left corner.
type Surface struct {
	mu     sync.Mutex
	doc    *fpdf.Fpdf
	w      io.Writer
	family string
	images map[string]bool
	closed bool
}

var _ invoice.Surface = (*Surface)(nil)

// NewSurface starts a portrait document with one page. Automatic page breaks are disabled;
// content below the page edge is clipped.
func NewSurface(w io.Writer, opts ...Option) *Surface {
	cfg := options{fontFamily: defaultFontFamily, pageSize: defaultPageSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc := fpdf.New("P", "pt", cfg.pageSize, "")
	doc.SetMargins(0, 0, 0)
	doc.SetCellMargin(0)
	doc.SetAutoPageBreak(false, 0)
	if cfg.title != "" {
		doc.SetTitle(cfg.title, true)
	}
	if cfg.author != "" {
		doc.SetAuthor(cfg.author, true)
	}
	doc.AddPage()
	doc.SetFont(cfg.fontFamily, "", 12)

	return &Surface{
		doc:    doc,
		w:      w,
		family: cfg.fontFamily,
		images: make(map[string]bool),
	}
}

// Text places a line with its top edge at y inside a box of style.Width.
func (s *Surface) Text(x, y float64, text string, style invoice.TextStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	size := style.Size
	if size <= 0 {
		size = 12
	}
	s.doc.SetFont(s.family, "", size)
	s.doc.SetTextColor(0, 0, 0)
	s.doc.SetXY(x, y)
	s.doc.CellFormat(style.Width, size, s.encode(text), "", 0, alignString(style.Align), false, 0, "")
}

// Rect fills and/or strokes a rectangle.
func (s *Surface) Rect(x, y, width, height float64, style invoice.RectStyle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	op := ""
	if c := style.Fill; c != nil {
		s.doc.SetFillColor(int(c.R), int(c.G), int(c.B))
		op += "F"
	}
	if c := style.Stroke; c != nil {
		s.doc.SetDrawColor(int(c.R), int(c.G), int(c.B))
		if style.LineWidth > 0 {
			s.doc.SetLineWidth(style.LineWidth)
		}
		op += "D"
	}
	if op == "" {
		return
	}
	s.doc.Rect(x, y, width, height, op)
}

// Line draws a black rule of the given width.
func (s *Surface) Line(x1, y1, x2, y2, width float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.doc.SetDrawColor(0, 0, 0)
	if width > 0 {
		s.doc.SetLineWidth(width)
	}
	s.doc.Line(x1, y1, x2, y2)
}

// Image draws img scaled to width, preserving its aspect ratio. Each image name is
// registered once per document.
func (s *Surface) Image(img invoice.Image, x, y, width float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(img.Data) == 0 {
		return
	}
	opts := fpdf.ImageOptions{ImageType: img.Type, ReadDpi: false}
	if !s.images[img.Name] {
		s.doc.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.Data))
		s.images[img.Name] = true
	}
	s.doc.ImageOptions(img.Name, x, y, width, 0, false, opts, 0, "")
}

// Close finalises the document and writes it to the underlying writer. Drawing errors
// accumulated by fpdf are reported here.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	if err := s.doc.Error(); err != nil {
		return fmt.Errorf("pdf: draw: %w", err)
	}
	if err := s.doc.Output(s.w); err != nil {
		return fmt.Errorf("pdf: write: %w", err)
	}
	return nil
}

// encode maps UTF-8 text onto the cp1252 code page used by the core fonts. Characters
// outside it become "?".
func (s *Surface) encode(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}

func alignString(a invoice.Align) string {
	switch a {
	case invoice.AlignCenter:
		return "CT"
	case invoice.AlignRight:
		return "RT"
	default:
		return "LT"
	}
}
