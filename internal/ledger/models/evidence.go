package models

import "time"

// PhotoEvidence links an uploaded photo, committed on its own, to an event.
// URL points at bytes held by the media store, not by the ledger.
type PhotoEvidence struct {
	NID        string    `json:"nid"`
	FileName   string    `json:"fileName,omitempty"`
	UploadedBy string    `json:"uploadedBy,omitempty"`
	UploadedAt time.Time `json:"uploadedAt,omitzero"`
	URL        string    `json:"url,omitempty"`
	VerifyURL  string    `json:"verifyUrl,omitempty"`
}
