package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/evcomfg/invoice-backend/internal/domain"
	"github.com/evcomfg/invoice-backend/internal/invoice"
	"github.com/evcomfg/invoice-backend/internal/platform/requestctx"
)

const invoiceInstrumentation = "github.com/evcomfg/invoice-backend/internal/services/invoice"

var (
	// ErrInvoiceInvalidInput is returned when an order reaches the service without the fields
	// the document needs, or without a destination.
	ErrInvoiceInvalidInput = errors.New("invoice: invalid input")
	// ErrInvoiceRenderFailed wraps surface and layout failures.
	ErrInvoiceRenderFailed = errors.New("invoice: render failed")
)

// Calculator prices an order.
type Calculator interface {
	Calculate(order domain.OrderRequest) domain.PriceBreakdown
}

// DocumentRenderer lays out a priced order on a drawing surface.
type DocumentRenderer interface {
	Render(order domain.OrderRequest, breakdown domain.PriceBreakdown, s invoice.Surface) error
}

// SurfaceFactory opens a fresh drawing surface that flushes to w on Close.
type SurfaceFactory func(w io.Writer) invoice.Surface

// InvoiceServiceDeps bundles collaborators required to construct an invoice service.
type InvoiceServiceDeps struct {
	Calculator  Calculator
	Renderer    DocumentRenderer
	Surfaces    SurfaceFactory
	IDGenerator func() string
	Logger      func(context.Context, string, map[string]any)
	Tracer      trace.Tracer
	Meter       metric.Meter
}

// RenderResult describes a completed render.
type RenderResult struct {
	RenderID  string
	Breakdown domain.PriceBreakdown
	Bytes     int64
}

// InvoiceService prices orders and produces invoice documents.
type InvoiceService struct {
	calculator Calculator
	renderer   DocumentRenderer
	surfaces   SurfaceFactory
	newID      func() string
	logger     func(context.Context, string, map[string]any)
	tracer     trace.Tracer

	rendered         metric.Int64Counter
	renderedEnabled  bool
	addOnRows        metric.Int64Histogram
	addOnRowsEnabled bool
}

// NewInvoiceService constructs the service. Renderer and Surfaces are required.
func NewInvoiceService(deps InvoiceServiceDeps) (*InvoiceService, error) {
	if deps.Renderer == nil {
		return nil, errors.New("invoice service: renderer is required")
	}
	if deps.Surfaces == nil {
		return nil, errors.New("invoice service: surface factory is required")
	}
	calculator := deps.Calculator
	if calculator == nil {
		calculator = NewPricingCalculator(PricingCalculatorDeps{})
	}
	newID := deps.IDGenerator
	if newID == nil {
		newID = func() string { return ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = otel.Tracer(invoiceInstrumentation)
	}
	meter := deps.Meter
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(invoiceInstrumentation)
	}

	svc := &InvoiceService{
		calculator: calculator,
		renderer:   deps.Renderer,
		surfaces:   deps.Surfaces,
		newID:      newID,
		logger:     logger,
		tracer:     tracer,
	}

	rendered, err := meter.Int64Counter(
		"invoice.rendered",
		metric.WithDescription("Count of invoice render attempts by outcome"),
	)
	if err != nil {
		logger(context.Background(), "invoice.metric_registration_failed", map[string]any{"metric": "invoice.rendered", "error": err.Error()})
	} else {
		svc.rendered, svc.renderedEnabled = rendered, true
	}

	addOnRows, err := meter.Int64Histogram(
		"invoice.addon_rows",
		metric.WithUnit("{row}"),
		metric.WithDescription("Number of add-on rows drawn per invoice"),
	)
	if err != nil {
		logger(context.Background(), "invoice.metric_registration_failed", map[string]any{"metric": "invoice.addon_rows", "error": err.Error()})
	} else {
		svc.addOnRows, svc.addOnRowsEnabled = addOnRows, true
	}

	return svc, nil
}

// Quote prices the order without rendering it.
func (s *InvoiceService) Quote(ctx context.Context, order domain.OrderRequest) domain.PriceBreakdown {
	breakdown := s.calculator.Calculate(order)
	s.logger(ctx, "invoice.quoted", map[string]any{
		"addOns": len(order.AddOns),
		"total":  breakdown.Total.String(),
	})
	return breakdown
}

// Render prices the order and writes the finished document to w. Nothing is written to w
// unless the whole document rendered successfully.
func (s *InvoiceService) Render(ctx context.Context, order domain.OrderRequest, w io.Writer) (RenderResult, error) {
	if w == nil {
		return RenderResult{}, fmt.Errorf("%w: destination writer is required", ErrInvoiceInvalidInput)
	}
	if missing := incompleteOrderFields(order); len(missing) > 0 {
		return RenderResult{}, fmt.Errorf("%w: missing %s", ErrInvoiceInvalidInput, strings.Join(missing, ", "))
	}

	id := s.newID()
	ctx = requestctx.WithRenderID(ctx, id)
	ctx, span := s.tracer.Start(ctx, "invoice.render", trace.WithAttributes(
		attribute.String("invoice.render_id", id),
		attribute.Int("invoice.addon_count", len(order.AddOns)),
		attribute.String("invoice.battery", order.Battery.Kind.String()),
		attribute.Bool("invoice.paint", order.Paint != nil),
		attribute.Bool("invoice.ship_to", order.Customer.ShipsSeparately()),
	))
	defer span.End()

	breakdown := s.calculator.Calculate(order)

	var buf bytes.Buffer
	surface := s.surfaces(&buf)
	if err := s.renderer.Render(order, breakdown, surface); err != nil {
		_ = surface.Close()
		return RenderResult{}, s.fail(ctx, span, order, fmt.Errorf("%w: %w", ErrInvoiceRenderFailed, err))
	}
	if err := surface.Close(); err != nil {
		return RenderResult{}, s.fail(ctx, span, order, fmt.Errorf("%w: close surface: %w", ErrInvoiceRenderFailed, err))
	}

	n, err := buf.WriteTo(w)
	if err != nil {
		return RenderResult{}, s.fail(ctx, span, order, fmt.Errorf("invoice: write document: %w", err))
	}

	span.SetAttributes(attribute.Int64("invoice.bytes", n))
	span.SetStatus(codes.Ok, "")
	s.record(ctx, order, "ok")
	s.logger(ctx, "invoice.rendered", map[string]any{
		"addOns":   len(order.AddOns),
		"subtotal": breakdown.Subtotal.String(),
		"total":    breakdown.Total.String(),
		"bytes":    n,
	})

	return RenderResult{RenderID: id, Breakdown: breakdown, Bytes: n}, nil
}

// Probe renders a representative order into a discarded buffer. It backs readiness checks.
func (s *InvoiceService) Probe(ctx context.Context) error {
	order := domain.OrderRequest{
		Customer: domain.Customer{
			Name:    "Readiness",
			Billing: domain.Address{Line1: "1 Probe St", City: "Union City", State: "OH", Zip: "45390"},
		},
		CartModel: "probe",
		Battery:   domain.StandardBattery(),
		AddOns:    []domain.AddOn{{Name: "probe"}},
	}
	surface := s.surfaces(io.Discard)
	if err := s.renderer.Render(order, s.calculator.Calculate(order), surface); err != nil {
		_ = surface.Close()
		return err
	}
	if err := ctx.Err(); err != nil {
		_ = surface.Close()
		return err
	}
	return surface.Close()
}

func (s *InvoiceService) fail(ctx context.Context, span trace.Span, order domain.OrderRequest, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.record(ctx, order, "error")
	s.logger(ctx, "invoice.render_failed", map[string]any{
		"addOns": len(order.AddOns),
		"error":  err.Error(),
	})
	return err
}

func (s *InvoiceService) record(ctx context.Context, order domain.OrderRequest, outcome string) {
	if s.renderedEnabled {
		s.rendered.Add(ctx, 1, metric.WithAttributes(
			attribute.String("outcome", outcome),
			attribute.String("battery", order.Battery.Kind.String()),
		))
	}
	if s.addOnRowsEnabled && outcome == "ok" {
		s.addOnRows.Record(ctx, int64(len(order.AddOns)))
	}
}

func incompleteOrderFields(order domain.OrderRequest) []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("customer name", order.Customer.Name)
	check("billing address", order.Customer.Billing.Line1)
	check("billing city", order.Customer.Billing.City)
	check("billing state", order.Customer.Billing.State)
	check("billing zip", order.Customer.Billing.Zip)
	check("cart model", order.CartModel)
	return missing
}
