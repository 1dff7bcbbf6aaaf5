package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/username/fundfolio/backend/src/logger"
	"github.com/username/fundfolio/backend/src/models"
	"github.com/username/fundfolio/backend/src/services"
	"github.com/username/fundfolio/backend/src/utils"
)

type GainsHandler struct {
	service services.CapitalGainsService
}

func NewGainsHandler(service services.CapitalGainsService) *GainsHandler {
	return &GainsHandler{service: service}
}

// FIFOSummary is the thin reduction over the gain list computed for the
// response; it is presentation, not part of the core pipeline.
type FIFOSummary struct {
	TotalSTCG         decimal.Decimal `json:"total_stcg"`
	TotalLTCG         decimal.Decimal `json:"total_ltcg"`
	TotalGains        decimal.Decimal `json:"total_gains"`
	TotalTransactions int             `json:"total_transactions"`
	DateRange         string          `json:"date_range"`
}

type FIFOResponse struct {
	Gains       []models.FIFOGain `json:"gains"`
	Summary     FIFOSummary       `json:"summary"`
	LastUpdated string            `json:"last_updated"`
}

// HandleGetCapitalGains serves GET /api/capital-gains.
// Query params: fy (optional financial year filter, e.g. "2024-25") and
// force_recalculate (invalidate and recompute regardless of cache state).
func (h *GainsHandler) HandleGetCapitalGains(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	fy := query.Get("fy")
	force := query.Get("force_recalculate") == "true"

	gains, err := h.service.GetCapitalGains(force)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error calculating capital gains: %v", err), http.StatusInternalServerError)
		return
	}

	if fy != "" {
		filtered := []models.FIFOGain{}
		for _, g := range gains {
			if g.FinancialYear == fy {
				filtered = append(filtered, g)
			}
		}
		gains = filtered
	}

	response := FIFOResponse{
		Gains:       gains,
		Summary:     summarizeGains(gains),
		LastUpdated: h.service.GetLastUpdated(),
	}

	etag, err := utils.GenerateETag(response)
	if err == nil {
		if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Log().Error("Error encoding capital gains response", "error", err)
	}
}

// HandleGetCacheMetadata serves GET /api/capital-gains/metadata, exposing the
// fingerprint, compute timestamp and record count for debugging.
func (h *GainsHandler) HandleGetCacheMetadata(w http.ResponseWriter, r *http.Request) {
	metadata, err := h.service.GetCacheMetadata()
	if err != nil {
		utils.SendJSONError(w, "no cache metadata available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metadata)
}

func summarizeGains(gains []models.FIFOGain) FIFOSummary {
	summary := FIFOSummary{
		TotalSTCG:         decimal.Zero,
		TotalLTCG:         decimal.Zero,
		TotalGains:        decimal.Zero,
		TotalTransactions: len(gains),
		DateRange:         "N/A",
	}

	var minDate, maxDate string
	for _, g := range gains {
		summary.TotalGains = summary.TotalGains.Add(g.Gain)
		if g.Term == models.TermLong {
			summary.TotalLTCG = summary.TotalLTCG.Add(g.Gain)
		} else {
			summary.TotalSTCG = summary.TotalSTCG.Add(g.Gain)
		}
		// ISO dates compare lexicographically
		if minDate == "" || g.SellDate < minDate {
			minDate = g.SellDate
		}
		if g.SellDate > maxDate {
			maxDate = g.SellDate
		}
	}
	if minDate != "" {
		summary.DateRange = minDate + " to " + maxDate
	}
	return summary
}
