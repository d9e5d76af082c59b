package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/evcomfg/invoice-backend/internal/invoice"
	"github.com/evcomfg/invoice-backend/internal/platform/config"
	"github.com/evcomfg/invoice-backend/internal/platform/pdf"
	"github.com/evcomfg/invoice-backend/internal/services"
)

// Services bundles the service-layer components that handlers and commands rely upon.
type Services struct {
	Pricing  *services.PricingCalculator
	Invoices *services.InvoiceService
	Health   services.HealthService
}

// Container wires the invoice pipeline for runtime use.
type Container struct {
	Config   config.Config
	Renderer *invoice.Renderer
	Services Services
}

// Option customises container construction.
type Option func(*options)

type options struct {
	logger func(context.Context, string, map[string]any)
	clock  func() time.Time
	build  services.BuildInfo
}

// WithEventLogger routes service events to logger.
func WithEventLogger(logger func(context.Context, string, map[string]any)) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock overrides the clock used for invoice dates and health reports.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithBuildInfo sets the metadata surfaced by health reports.
func WithBuildInfo(info services.BuildInfo) Option {
	return func(o *options) {
		o.build = info
	}
}

// NewContainer constructs the runtime dependencies.
func NewContainer(cfg config.Config, opts ...Option) (*Container, error) {
	o := options{clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	branding, err := invoice.DefaultBranding()
	if err != nil {
		return nil, fmt.Errorf("di: branding: %w", err)
	}
	renderer, err := invoice.NewRenderer(invoice.WithBranding(branding), invoice.WithClock(o.clock))
	if err != nil {
		return nil, fmt.Errorf("di: renderer: %w", err)
	}

	pricing := services.NewPricingCalculator(services.PricingCalculatorDeps{})
	invoices, err := services.NewInvoiceService(services.InvoiceServiceDeps{
		Calculator: pricing,
		Renderer:   renderer,
		Surfaces:   PDFSurfaceFactory(branding.Issuer.Name),
		Logger:     o.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("di: invoice service: %w", err)
	}

	health, err := services.NewHealthService(services.HealthServiceDeps{
		Probes: []services.ReadinessProbe{
			{Name: "branding", Check: checkBranding},
			{Name: "pdf", Check: invoices.Probe},
		},
		Clock: o.clock,
		Build: o.build,
	})
	if err != nil {
		return nil, fmt.Errorf("di: health service: %w", err)
	}

	return &Container{
		Config:   cfg,
		Renderer: renderer,
		Services: Services{
			Pricing:  pricing,
			Invoices: invoices,
			Health:   health,
		},
	}, nil
}

// PDFSurfaceFactory opens A4 PDF surfaces that carry author as the document author.
func PDFSurfaceFactory(author string) services.SurfaceFactory {
	return func(w io.Writer) invoice.Surface {
		return pdf.NewSurface(w, pdf.WithMetadata("Invoice", author))
	}
}

func checkBranding(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	branding, err := invoice.DefaultBranding()
	if err != nil {
		return err
	}
	if len(branding.Logo.Data) == 0 {
		return errors.New("branding: logo is empty")
	}
	return nil
}
