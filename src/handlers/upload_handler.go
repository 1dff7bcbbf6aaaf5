package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/username/fundfolio/backend/src/logger"
	"github.com/username/fundfolio/backend/src/models"
	"github.com/username/fundfolio/backend/src/storage"
	"github.com/username/fundfolio/backend/src/utils"
)

// UploadHandler ingests transaction feed documents produced by upstream
// extractors. Persisting a feed adds a new source file, which changes the
// cache fingerprint; no explicit invalidation is needed.
type UploadHandler struct {
	store         *storage.Store
	maxUploadSize int64
}

func NewUploadHandler(store *storage.Store, maxUploadSize int64) *UploadHandler {
	return &UploadHandler{store: store, maxUploadSize: maxUploadSize}
}

type uploadResponse struct {
	FileID    string `json:"file_id"`
	TotalRows int    `json:"total_rows"`
	ValidRows int    `json:"valid_rows"`
}

// HandleUploadTransactions serves POST /api/transactions/upload with a
// transaction feed JSON body. Malformed rows are counted and reported but do
// not reject the upload; they are skipped again, with warnings, at load time.
func (h *UploadHandler) HandleUploadTransactions(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var feed models.TransactionFeed
	if err := json.NewDecoder(r.Body).Decode(&feed); err != nil {
		utils.SendJSONError(w, fmt.Sprintf("invalid transaction feed: %v", err), http.StatusBadRequest)
		return
	}
	if len(feed.Transactions) == 0 {
		utils.SendJSONError(w, "transaction feed contains no rows", http.StatusBadRequest)
		return
	}

	validRows := 0
	for i, row := range feed.Transactions {
		if _, err := models.ParseTransactionRow(row); err != nil {
			logger.Log().Warn("Uploaded feed contains malformed row", "row", i, "error", err)
			continue
		}
		validRows++
	}

	fileID, err := h.store.SaveFeed(feed)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error saving transaction feed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(uploadResponse{
		FileID:    fileID,
		TotalRows: len(feed.Transactions),
		ValidRows: validRows,
	})
}
