package handler

import (
	"fmt"
	"time"

	"proofsy/internal/evidence"
	"proofsy/internal/ledger/models"
)

type submitResponse struct {
	AssetNID string                `json:"assetNid"`
	Receipt  *models.CommitReceipt `json:"receipt"`
}

type evidenceSubmitResponse struct {
	AssetNID string                 `json:"assetNid"`
	Receipt  *models.CommitReceipt  `json:"receipt"`
	Evidence []models.PhotoEvidence `json:"evidence"`
	Warning  string                 `json:"warning,omitempty"`
}

type mediaResponse struct {
	Evidence  []models.PhotoEvidence `json:"evidence"`
	Succeeded int                    `json:"succeeded"`
	Failed    int                    `json:"failed"`
	Warning   string                 `json:"warning,omitempty"`
}

type healthResponse struct {
	Status    string        `json:"status"`
	Mode      string        `json:"mode"`
	Timestamp time.Time     `json:"timestamp"`
	Capture   captureStatus `json:"capture"`
}

type captureStatus struct {
	BaseURL      string `json:"baseURL"`
	IsConfigured bool   `json:"isConfigured"`
}

func partialWarning(r *evidence.Result, total int) string {
	return fmt.Sprintf("%d of %d photos failed to upload and were not attached", r.Failed, total)
}
