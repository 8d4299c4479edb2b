package models

import "time"

// MediaRecord is a photo committed to the ledger on its own, indexed by
// booking so it can be found without an event referencing it. AssetNID is
// unique.
type MediaRecord struct {
	AssetNID   string    `json:"nid"`
	BookingID  string    `json:"bookingId"`
	UploadedBy string    `json:"uploadedBy"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType,omitempty"`
	FileSize   int64     `json:"fileSize"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// DisplayMedia is one entry of a booking's media listing.
type DisplayMedia struct {
	MediaRecord
	Links DisplayLinks `json:"links"`
}

// MediaListing lists a booking's photos, newest first.
type MediaListing struct {
	BookingID  string         `json:"bookingId"`
	MediaFiles []DisplayMedia `json:"mediaFiles"`
}
