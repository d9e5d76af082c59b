// Package invoice lays out a single-page cart invoice on an abstract drawing surface.
//
// The page is drawn as a fixed pipeline of regions (header, metadata, parties, line-item
// table, summary). Each region receives the layout cursor left by the previous one and
// returns it advanced past its own content, so the summary block always lands below the
// last add-on row regardless of how many add-ons the order carries.
package invoice

import (
	"errors"
	"fmt"
	"time"

	"github.com/evcomfg/invoice-backend/internal/domain"
)

// ErrCursorRegressed is returned when a region hands back a cursor above the one it received.
var ErrCursorRegressed = errors.New("invoice: layout cursor moved upwards")

// Region draws one block of the invoice starting at the given cursor and returns the
// cursor positioned below its content.
type Region interface {
	Name() string
	Draw(s Surface, at Cursor) (Cursor, error)
}

type regionFunc struct {
	name string
	draw func(Surface, Cursor) (Cursor, error)
}

func (r regionFunc) Name() string { return r.name }

func (r regionFunc) Draw(s Surface, at Cursor) (Cursor, error) { return r.draw(s, at) }

// Renderer draws invoices. It holds only immutable configuration and is safe for
// concurrent use; every Render call owns its own cursor.
type Renderer struct {
	profile  Profile
	branding Branding
	now      func() time.Time
}

// RendererOption customises a Renderer.
type RendererOption func(*Renderer)

// WithProfile overrides the page geometry.
func WithProfile(p Profile) RendererOption {
	return func(r *Renderer) {
		r.profile = p
	}
}

// WithBranding overrides the issuer identity and logo.
func WithBranding(b Branding) RendererOption {
	return func(r *Renderer) {
		r.branding = b
	}
}

// WithClock overrides the clock used for the invoice date.
func WithClock(now func() time.Time) RendererOption {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRenderer builds a renderer with the default A4 profile and the embedded branding.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	branding, err := DefaultBranding()
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		profile:  DefaultProfile(),
		branding: branding,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Profile returns the page geometry in use.
func (r *Renderer) Profile() Profile {
	return r.profile
}

// Render draws the invoice for order onto s. It does not close the surface.
func (r *Renderer) Render(order domain.OrderRequest, breakdown domain.PriceBreakdown, s Surface) error {
	if s == nil {
		return errors.New("invoice: surface is required")
	}
	doc := &document{
		profile:   r.profile,
		branding:  r.branding,
		order:     order,
		breakdown: breakdown,
		issuedAt:  r.now(),
	}

	return drawRegions(s, doc.regions())
}

func drawRegions(s Surface, regions []Region) error {
	cursor := NewCursor(0)
	for _, region := range regions {
		next, err := region.Draw(s, cursor)
		if err != nil {
			return fmt.Errorf("invoice: draw %s: %w", region.Name(), err)
		}
		if next.Y() < cursor.Y() {
			return fmt.Errorf("%w: %s returned %.2f after %.2f", ErrCursorRegressed, region.Name(), next.Y(), cursor.Y())
		}
		cursor = next
	}
	return nil
}
