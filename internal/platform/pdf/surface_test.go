package pdf

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evcomfg/invoice-backend/internal/invoice"
)

func TestSurfaceWritesPDF(t *testing.T) {
	t.Parallel()

	branding, err := invoice.DefaultBranding()
	require.NoError(t, err)

	var buf bytes.Buffer
	s := NewSurface(&buf, WithMetadata("Invoice", "EVCO Manufacturing"))
	fill, stroke := invoice.LightGray, invoice.Black
	s.Image(branding.Logo, 50, 45, 100)
	s.Image(branding.Logo, 50, 700, 50)
	s.Text(400, 40, "INVOICE", invoice.TextStyle{Size: 16, Width: 145, Align: invoice.AlignRight})
	s.Text(50, 140, "Café crème – 5 €", invoice.TextStyle{Size: 12, Width: 200})
	s.Rect(50, 270, 500, 20, invoice.RectStyle{Fill: &fill, Stroke: &stroke, LineWidth: 1})
	s.Rect(0, 0, 10, 10, invoice.RectStyle{})
	s.Line(200, 180, 200, 260, 2)

	require.Zero(t, buf.Len(), "nothing is written before Close")
	require.NoError(t, s.Close())

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "%PDF-"))
	require.Contains(t, out, "%%EOF")
	require.Contains(t, out, "/Type /Page")
}

func TestSurfaceCloseTwice(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSurface(&buf)
	require.NoError(t, s.Close())
	require.True(t, errors.Is(s.Close(), ErrClosed))

	n := buf.Len()
	s.Text(10, 10, "late", invoice.TextStyle{Size: 10, Width: 50})
	require.Equal(t, n, buf.Len())
}

func TestSurfaceReportsWriterFailure(t *testing.T) {
	t.Parallel()

	s := NewSurface(failingWriter{})
	s.Text(10, 10, "hello", invoice.TextStyle{Size: 10, Width: 50})
	require.Error(t, s.Close())
}

func TestSurfaceEncodesCP1252(t *testing.T) {
	t.Parallel()

	s := NewSurface(&bytes.Buffer{})
	require.Equal(t, "caf\xe9", s.encode("café"))
	require.Equal(t, "\x80", s.encode("€"))
	require.Equal(t, "?", s.encode("日"))
}

func TestAlignString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "LT", alignString(invoice.AlignLeft))
	require.Equal(t, "CT", alignString(invoice.AlignCenter))
	require.Equal(t, "RT", alignString(invoice.AlignRight))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}
