package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/printhub/internal/dashboard/app"
	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/printhub/internal/dashboard/core/pipeline"
)

// dateLayout is the format of the from/to query parameters.
const dateLayout = "2006-01-02"

// Handler serves the operator dashboard and the shopping carts.
type Handler struct {
	dashboard *app.Dashboard
	carts     *app.Carts
}

func NewHandler(d *app.Dashboard, c *app.Carts) *Handler {
	return &Handler{dashboard: d, carts: c}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	res, err := h.dashboard.Refresh(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RefreshResponse{
		Orders:      res.Orders,
		Custom:      res.Custom,
		Store:       res.Store,
		Skipped:     res.Skipped,
		RefreshedAt: res.RefreshedAt,
	})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	params, err := parseParams(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	res, err := h.dashboard.Orders(r.Context(), params)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrders(res))
}

func (h *Handler) LoadMore(w http.ResponseWriter, r *http.Request) {
	res, err := h.dashboard.LoadMore(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrders(res))
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.dashboard.Summary(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSummary(s))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	rec, err := h.dashboard.Order(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "orderKey"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(rec))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	next, ok := entity.ParseStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_status", fmt.Sprintf("unknown status %q", req.Status))
		return
	}

	userID, orderKey := chi.URLParam(r, "userID"), chi.URLParam(r, "orderKey")
	rec, err := h.dashboard.UpdateStatus(r.Context(), userID, orderKey, next)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(rec))
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.dashboard.History(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "orderKey"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapHistory(entries))
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.carts.Products(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	v, err := h.carts.Load(r.Context(), chi.URLParam(r, "phone"))
	h.writeCart(w, r, v, err)
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "productId is required")
		return
	}
	v, err := h.carts.Add(r.Context(), chi.URLParam(r, "phone"), req.ProductID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapCart(v))
}

func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	v, err := h.carts.SetQuantity(r.Context(), chi.URLParam(r, "phone"), chi.URLParam(r, "id"), req.Delta)
	h.writeCart(w, r, v, err)
}

func (h *Handler) ToggleSelect(w http.ResponseWriter, r *http.Request) {
	v, err := h.carts.ToggleSelect(r.Context(), chi.URLParam(r, "phone"), chi.URLParam(r, "id"))
	h.writeCart(w, r, v, err)
}

func (h *Handler) SelectAll(w http.ResponseWriter, r *http.Request) {
	v, err := h.carts.SelectAll(r.Context(), chi.URLParam(r, "phone"))
	h.writeCart(w, r, v, err)
}

func (h *Handler) DeselectAll(w http.ResponseWriter, r *http.Request) {
	v, err := h.carts.DeselectAll(r.Context(), chi.URLParam(r, "phone"))
	h.writeCart(w, r, v, err)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	v, err := h.carts.Remove(r.Context(), chi.URLParam(r, "phone"), chi.URLParam(r, "id"))
	h.writeCart(w, r, v, err)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	co, err := h.carts.Checkout(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCheckout(co))
}

func (h *Handler) writeCart(w http.ResponseWriter, r *http.Request, v app.CartView, err error) {
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(v))
}

// parseParams reads the pipeline controls. Empty values and "all" mean no
// constraint.
func parseParams(q url.Values) (pipeline.Params, error) {
	var p pipeline.Params

	if v := q.Get("kind"); !isAll(v) {
		k, ok := entity.ParseKind(v)
		if !ok {
			return p, fmt.Errorf("unknown kind %q", v)
		}
		p.Kind = k
	}
	if v := q.Get("category"); !isAll(v) {
		c, ok := entity.ParseCategory(v)
		if !ok {
			return p, fmt.Errorf("unknown category %q", v)
		}
		p.Category = c
	}
	if v := q.Get("status"); !isAll(v) {
		s, ok := entity.ParseStatus(v)
		if !ok {
			return p, fmt.Errorf("unknown status %q", v)
		}
		p.Status = s
	}

	switch f := pipeline.SearchField(q.Get("searchBy")); f {
	case "", pipeline.SearchAll, pipeline.SearchOrderID, pipeline.SearchUserName,
		pipeline.SearchUserPhone, pipeline.SearchFileName:
		p.SearchBy = f
	default:
		return p, fmt.Errorf("unknown search field %q", f)
	}
	p.Term = q.Get("q")

	var err error
	if p.DateFrom, err = parseDate(q.Get("from")); err != nil {
		return p, err
	}
	if p.DateTo, err = parseDate(q.Get("to")); err != nil {
		return p, err
	}

	switch s := pipeline.SortOrder(q.Get("sort")); s {
	case "", pipeline.SortNewest, pipeline.SortOldest:
		p.Sort = s
	default:
		return p, fmt.Errorf("unknown sort order %q", s)
	}
	return p, nil
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}

func parseDate(v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", v)
	}
	return t, nil
}

// writeDomainError maps core errors onto status codes.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var be *entity.BackendError
	switch {
	case errors.Is(err, entity.ErrSourceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "source_unavailable", err.Error())
	case errors.Is(err, entity.ErrBusy):
		writeError(w, http.StatusConflict, "busy", "a status update for this order is already in flight")
	case errors.Is(err, entity.ErrTransitionFailed):
		writeError(w, http.StatusBadGateway, "transition_failed", transitionMessage(err))
	case errors.Is(err, entity.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, entity.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, entity.ErrNotLoggedIn):
		writeError(w, http.StatusNotFound, "not_logged_in", "no account is registered for this phone")
	case errors.Is(err, entity.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, entity.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, entity.ErrNoSelection):
		writeError(w, http.StatusUnprocessableEntity, "no_selection", "select at least one item")
	case errors.As(err, &be):
		writeError(w, http.StatusBadGateway, "backend_error", be.Error())
	default:
		slog.ErrorContext(r.Context(), "unhandled error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

// transitionMessage strips the sentinel prefix so the operator sees the
// backend's own words.
func transitionMessage(err error) string {
	prefix := entity.ErrTransitionFailed.Error() + ": "
	return strings.TrimPrefix(err.Error(), prefix)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
