package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "invrecon/internal/errors"
	custommw "invrecon/internal/middleware"
	"invrecon/internal/recon"
	"invrecon/internal/services"
)

// ReconHandler handles analysis-related HTTP requests
type ReconHandler struct {
	service      *services.ReconService
	validator    *custommw.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReconHandler creates a new analysis handler
func NewReconHandler(service *services.ReconService, logger *slog.Logger) *ReconHandler {
	return &ReconHandler{
		service:      service,
		validator:    custommw.NewValidator(logger),
		logger:       logger,
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}
}

// Routes sets up the analysis routes
func (h *ReconHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/profit", h.GetProfit)
	r.Get("/profit/batches/{batchRefNo}", h.GetBatchProfit)
	r.Get("/anomalies", h.GetAnomalies)
	r.Get("/products", h.GetProducts)
	r.Get("/vendors", h.GetVendors)
	r.Get("/orphans", h.GetOrphans)
	r.Get("/charges", h.GetCharges)
	r.Get("/expenses", h.GetExpenses)
	r.Post("/run", h.RunAll)
	r.Post("/reload", h.Reload)
	return r
}

// serviceError maps service sentinel errors onto API errors before handing
// off to the shared RFC 7807 error handler.
func (h *ReconHandler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrRegistersNotLoaded):
		h.errorHandler.HandleError(w, r, apierrors.ErrRegistersNotLoaded)
	case errors.Is(err, services.ErrBatchNotFound):
		h.errorHandler.HandleError(w, r, apierrors.BatchNotFoundError(chi.URLParam(r, "batchRefNo")))
	case errors.Is(err, services.ErrExpensesNotLoaded):
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("expense ledger"))
	case errors.Is(err, services.ErrInvalidInput):
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// parseCategories reads the comma-separated categories query parameter.
func (h *ReconHandler) parseCategories(w http.ResponseWriter, r *http.Request) ([]recon.Category, bool) {
	raw := r.URL.Query().Get("categories")
	if raw == "" {
		return nil, true
	}

	categories, err := services.ParseCategories(strings.Split(raw, ","))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("categories", err.Error()))
		return nil, false
	}
	return categories, true
}

// GetProfit returns the batch profit decomposition
func (h *ReconHandler) GetProfit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, ok := h.parseCategories(w, r)
	if !ok {
		return
	}

	report, err := h.service.ProfitReport(ctx, categories)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, report)
}

// GetBatchProfit returns the decomposition of a single batch
func (h *ReconHandler) GetBatchProfit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	batchRefNo := chi.URLParam(r, "batchRefNo")

	profit, err := h.service.BatchProfit(ctx, batchRefNo)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, profit)
}

// anomalyQuery carries the optional anomaly sweep overrides.
type anomalyQuery struct {
	ThresholdPct float64  `json:"threshold_pct" validate:"omitempty,gt=0,max=100"`
	Iterations   int      `json:"iterations" validate:"omitempty,min=1,max=10"`
	Categories   []string `json:"categories" validate:"omitempty,dive,category"`
}

// GetAnomalies runs the purchase rate anomaly sweep
func (h *ReconHandler) GetAnomalies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var query anomalyQuery
	if raw := q.Get("threshold_pct"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("threshold_pct", "must be a positive number"))
			return
		}
		query.ThresholdPct = v
	}
	if raw := q.Get("iterations"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("iterations", "must be a positive integer"))
			return
		}
		query.Iterations = v
	}
	if raw := q.Get("categories"); raw != "" {
		query.Categories = strings.Split(raw, ",")
	}

	if apiErr := h.validator.ValidateStruct(query); apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	var params *recon.AnomalyParams
	if query.ThresholdPct != 0 || query.Iterations != 0 || len(query.Categories) > 0 {
		p := recon.DefaultAnomalyParams()
		if query.ThresholdPct != 0 {
			p.ThresholdPct = query.ThresholdPct
		}
		if query.Iterations != 0 {
			p.Iterations = query.Iterations
		}
		if len(query.Categories) > 0 {
			categories, err := services.ParseCategories(query.Categories)
			if err != nil {
				h.errorHandler.HandleError(w, r, apierrors.ErrValidation("categories", err.Error()))
				return
			}
			p.Categories = categories
		}
		params = &p
	}

	anomalies, err := h.service.Anomalies(ctx, params)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"count":     len(anomalies),
		"anomalies": anomalies,
	})
}

// GetProducts returns the per-product rate variance analysis
func (h *ReconHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, ok := h.parseCategories(w, r)
	if !ok {
		return
	}

	products, err := h.service.ProductVariance(ctx, categories)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"count":    len(products),
		"products": products,
	})
}

// GetVendors returns the vendor pricing leaderboard
func (h *ReconHandler) GetVendors(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.VendorLeaderboard(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, report)
}

// GetOrphans returns sales whose batch has no purchase record
func (h *ReconHandler) GetOrphans(w http.ResponseWriter, r *http.Request) {
	orphans, err := h.service.Orphans(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"total":   orphans.Total(),
		"orphans": orphans,
	})
}

// GetCharges returns the charge and advertising item summary
func (h *ReconHandler) GetCharges(w http.ResponseWriter, r *http.Request) {
	charges, err := h.service.Charges(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, charges)
}

// GetExpenses returns the expense ledger rollups
func (h *ReconHandler) GetExpenses(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.ExpenseReport(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	render.JSON(w, r, report)
}

// RunAll executes every analysis and returns the combined report
func (h *ReconHandler) RunAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.service.RunAll(ctx)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "analysis run served",
		slog.String("run_id", report.RunID))

	render.JSON(w, r, report)
}

// Reload re-reads the configured register workbook
func (h *ReconHandler) Reload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.LoadRegisters(ctx); err != nil {
		h.logger.ErrorContext(ctx, "register reload failed",
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.IngestError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":    "reloaded",
		"loaded_at": h.service.LoadedAt(),
	})
}
