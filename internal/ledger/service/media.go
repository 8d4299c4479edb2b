package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"proofsy/internal/evidence"
	"proofsy/internal/ledger/models"
	dErrors "proofsy/pkg/domain-errors"
	"proofsy/pkg/platform/sentinel"
)

// LinkMedia commits photos that are not attached to an event and indexes the
// committed ones under the booking. If every photo fails the result is
// returned with a CodeUpstream error.
func (s *Service) LinkMedia(ctx context.Context, bookingID, uploaderID string, files []evidence.File) (*evidence.Result, error) {
	if s.linker == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "evidence linking is not configured")
	}
	switch {
	case strings.TrimSpace(bookingID) == "":
		return nil, dErrors.New(dErrors.CodeValidation, "bookingId is required")
	case strings.TrimSpace(uploaderID) == "":
		return nil, dErrors.New(dErrors.CodeValidation, "uploadedBy is required")
	case len(files) == 0:
		return nil, dErrors.New(dErrors.CodeValidation, "no file uploaded")
	}

	result := s.linker.Link(ctx, bookingID, uploaderID, files)
	s.indexMedia(ctx, bookingID, files, result)
	if err := result.Err(); err != nil {
		return result, dErrors.Wrap(err, dErrors.CodeUpstream, "failed to submit photos to the ledger, please try again")
	}
	return result, nil
}

// Media lists the booking's committed photos, newest first. Photos uploaded
// together keep their upload order.
func (s *Service) Media(ctx context.Context, bookingID string) (*models.MediaListing, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "bookingId is required")
	}
	if s.media == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "media index is not configured")
	}
	records, err := s.media.FindMediaByBooking(ctx, bookingID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load booking media")
	}

	slices.SortStableFunc(records, func(a, b *models.MediaRecord) int {
		return b.UploadedAt.Compare(a.UploadedAt)
	})
	files := make([]models.DisplayMedia, 0, len(records))
	for _, r := range records {
		files = append(files, models.DisplayMedia{
			MediaRecord: *r,
			Links:       models.DisplayLinks{Asset: s.assetBase + r.AssetNID},
		})
	}
	return &models.MediaListing{BookingID: bookingID, MediaFiles: files}, nil
}

// indexMedia records each committed photo. The photo already exists on the
// ledger, so an index failure is logged and does not fail the request.
func (s *Service) indexMedia(ctx context.Context, bookingID string, files []evidence.File, result *evidence.Result) {
	if s.media == nil || result == nil {
		return
	}
	for i, pos := range result.Positions(len(files)) {
		e := result.Evidence[i]
		f := files[pos]
		rec := &models.MediaRecord{
			AssetNID:   e.NID,
			BookingID:  bookingID,
			UploadedBy: e.UploadedBy,
			FileName:   f.Name,
			MimeType:   f.ContentType,
			FileSize:   int64(len(f.Data)),
			URL:        f.URL,
			UploadedAt: e.UploadedAt,
		}
		err := s.media.AddMedia(context.WithoutCancel(ctx), rec)
		if err != nil && !errors.Is(err, sentinel.ErrConflict) {
			s.logger.ErrorContext(ctx, "failed to index committed photo",
				"booking_id", bookingID,
				"asset_nid", e.NID,
				"file_name", f.Name,
				"error", err,
			)
		}
	}
}
