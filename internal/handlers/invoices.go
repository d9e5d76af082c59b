package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/evcomfg/invoice-backend/internal/domain"
	"github.com/evcomfg/invoice-backend/internal/orderform"
	"github.com/evcomfg/invoice-backend/internal/platform/httpx"
	"github.com/evcomfg/invoice-backend/internal/platform/observability"
	"github.com/evcomfg/invoice-backend/internal/services"
)

const (
	msgBodyTooLarge = "Request body too large."

	invoiceFilename = "invoice.pdf"
	rateLimitWindow = time.Minute
	pdfContentType  = "application/pdf"
)

// InvoiceService is the subset of the invoice service used by the HTTP layer.
type InvoiceService interface {
	Quote(ctx context.Context, order domain.OrderRequest) domain.PriceBreakdown
	Render(ctx context.Context, order domain.OrderRequest, w io.Writer) (services.RenderResult, error)
}

// InvoiceHandlers exposes invoice rendering and quoting.
type InvoiceHandlers struct {
	invoices InvoiceService
	decode   orderform.Options
	maxBody  int64
	limiter  rateLimiter
}

// InvoiceOption customises InvoiceHandlers.
type InvoiceOption func(*InvoiceHandlers)

// WithInvoiceBodyLimit caps the accepted request body size in bytes.
func WithInvoiceBodyLimit(limit int64) InvoiceOption {
	return func(h *InvoiceHandlers) {
		if limit > 0 {
			h.maxBody = limit
		}
	}
}

// WithNegativePriceRejection turns negative submitted prices into invalid-price errors.
func WithNegativePriceRejection(reject bool) InvoiceOption {
	return func(h *InvoiceHandlers) {
		h.decode.RejectNegative = reject
	}
}

// WithInvoiceRateLimit allows perMinute requests per client. Zero disables throttling.
func WithInvoiceRateLimit(perMinute int, clock func() time.Time) InvoiceOption {
	return func(h *InvoiceHandlers) {
		h.limiter = newSimpleRateLimiter(perMinute, rateLimitWindow, clock)
	}
}

// NewInvoiceHandlers constructs invoice handlers backed by the provided service.
func NewInvoiceHandlers(invoices InvoiceService, opts ...InvoiceOption) *InvoiceHandlers {
	h := &InvoiceHandlers{
		invoices: invoices,
		maxBody:  defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Routes registers invoice endpoints under the provided router.
func (h *InvoiceHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	group := r
	if h.limiter != nil {
		group = group.With(rateLimitMiddleware(h.limiter, rateLimitWindow))
	}
	group.Post("/", h.renderInvoice)
	group.Post("/breakdown", h.quoteInvoice)
}

func (h *InvoiceHandlers) renderInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.invoices == nil {
		httpx.WriteError(ctx, w, httpx.NewError("invoice_unavailable", "invoice service unavailable", http.StatusServiceUnavailable))
		return
	}

	order, ok := h.decodeOrder(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	result, err := h.invoices.Render(ctx, order, &buf)
	if err != nil {
		h.writeRenderError(ctx, w, err)
		return
	}

	header := w.Header()
	header.Set("Content-Type", pdfContentType)
	header.Set("Content-Disposition", "inline; filename="+invoiceFilename)
	header.Set("Content-Length", strconv.Itoa(buf.Len()))
	header.Set(observability.RenderIDHeader, result.RenderID)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *InvoiceHandlers) quoteInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.invoices == nil {
		httpx.WriteError(ctx, w, httpx.NewError("invoice_unavailable", "invoice service unavailable", http.StatusServiceUnavailable))
		return
	}

	order, ok := h.decodeOrder(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, services.NewBreakdownView(h.invoices.Quote(ctx, order)))
}

// decodeOrder reads and validates the order body, writing the plain-text rejection itself.
func (h *InvoiceHandlers) decodeOrder(w http.ResponseWriter, r *http.Request) (domain.OrderRequest, bool) {
	body, err := readLimitedBody(r, h.maxBody)
	switch {
	case err == nil:
	case errors.Is(err, errBodyTooLarge):
		httpx.WriteText(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		return domain.OrderRequest{}, false
	case errors.Is(err, errEmptyBody):
		httpx.WriteText(w, http.StatusBadRequest, orderform.MessageMissingFields)
		return domain.OrderRequest{}, false
	default:
		httpx.WriteText(w, http.StatusBadRequest, orderform.MessageMalformedBody)
		return domain.OrderRequest{}, false
	}

	order, err := orderform.Decode(body, h.decode)
	if err != nil {
		httpx.WriteText(w, http.StatusBadRequest, orderform.Message(err))
		return domain.OrderRequest{}, false
	}
	return order, true
}

func (h *InvoiceHandlers) writeRenderError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvoiceInvalidInput):
		httpx.WriteText(w, http.StatusBadRequest, orderform.MessageMissingFields)
	case errors.Is(err, services.ErrInvoiceRenderFailed):
		observability.FromContext(ctx).Error("invoice render failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("invoice_render_failed", "unable to render invoice", http.StatusInternalServerError))
	default:
		observability.FromContext(ctx).Error("invoice request failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.StatusError(http.StatusInternalServerError))
	}
}
