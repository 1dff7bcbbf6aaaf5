package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/fundfolio/backend/src/models"
	"github.com/username/fundfolio/backend/src/services"
	"github.com/username/fundfolio/backend/src/storage"
	"github.com/username/fundfolio/backend/src/utils"
)

type OverrideHandler struct {
	service services.CapitalGainsService
}

func NewOverrideHandler(service services.CapitalGainsService) *OverrideHandler {
	return &OverrideHandler{service: service}
}

type fundTypeOverrideRequest struct {
	Ticker   string `json:"ticker"`
	FundType string `json:"fund_type"`
}

type fundTypeOverridesBatchRequest struct {
	Overrides map[string]string `json:"overrides"`
}

// HandleGetOverrides serves GET /api/fund-type-overrides.
func (h *OverrideHandler) HandleGetOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.service.GetFundTypeOverrides()
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error loading fund type overrides: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(overrides)
}

// HandleSaveOverride serves POST /api/fund-type-overrides. The value must be
// exactly "equity" or "debt"; anything else is a caller error and nothing is
// persisted.
func (h *OverrideHandler) HandleSaveOverride(w http.ResponseWriter, r *http.Request) {
	var req fundTypeOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Ticker) == "" {
		utils.SendJSONError(w, "ticker is required", http.StatusBadRequest)
		return
	}

	if err := h.service.SaveFundTypeOverride(req.Ticker, models.FundType(req.FundType)); err != nil {
		if errors.Is(err, storage.ErrInvalidFundType) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.SendJSONError(w, fmt.Sprintf("Error saving fund type override: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "saved", "ticker": req.Ticker})
}

// HandleSaveOverridesBatch serves PUT /api/fund-type-overrides/batch. One
// invalid entry rejects the whole batch with no writes.
func (h *OverrideHandler) HandleSaveOverridesBatch(w http.ResponseWriter, r *http.Request) {
	var req fundTypeOverridesBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Overrides) == 0 {
		utils.SendJSONError(w, "overrides map is empty", http.StatusBadRequest)
		return
	}

	overrides := make(map[string]models.FundType, len(req.Overrides))
	for ticker, fundType := range req.Overrides {
		overrides[ticker] = models.FundType(fundType)
	}

	if err := h.service.SaveFundTypeOverridesBatch(overrides); err != nil {
		if errors.Is(err, storage.ErrInvalidFundType) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.SendJSONError(w, fmt.Sprintf("Error saving fund type overrides: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"status": "saved", "count": len(overrides)})
}
