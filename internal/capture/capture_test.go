package capture

//go:generate mockgen -source=capture.go -destination=mocks/mocks.go -package=mocks Client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"proofsy/internal/ledger/models"
	"proofsy/internal/platform/config"
)

var (
	mockNIDPattern      = regexp.MustCompile(`^nid_[0-9a-f]{32}$`)
	mockWorkflowPattern = regexp.MustCompile(`^0x[0-9a-f]{64}$`)
)

type failingTransport struct{ t *testing.T }

func (f failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	f.t.Fatalf("mock mode must not perform network I/O")
	return nil, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewWithoutKeyIsMockAndOffline(t *testing.T) {
	for _, key := range []string{"", config.PlaceholderAPIKey} {
		client := New(config.CaptureConfig{APIKey: key, Chain: "numbers-mainnet", BaseURL: "http://unreachable.invalid"},
			WithHTTPClient(&http.Client{Transport: failingTransport{t}}),
			WithLogger(discardLogger()),
		)
		require.False(t, client.Live())

		seen := map[string]bool{}
		for range 20 {
			receipt, err := client.Commit(context.Background(), Payload{Kind: KindEvent})
			require.NoError(t, err)
			assert.Regexp(t, mockNIDPattern, receipt.AssetNID)
			assert.Regexp(t, mockWorkflowPattern, receipt.WorkflowRef)
			assert.Equal(t, models.ReceiptStatusMock, receipt.Status)
			assert.Equal(t, "numbers-mainnet", receipt.Chain)
			assert.False(t, seen[receipt.AssetNID], "mock identifiers should not repeat")
			seen[receipt.AssetNID] = true
		}
	}
}

func TestMockHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMock("c", nil).Commit(ctx, Payload{Kind: KindPhoto})
	require.Error(t, err)
	assert.True(t, IsUpstream(err))
}

type LiveClientSuite struct {
	suite.Suite
	handler http.HandlerFunc
	server  *httptest.Server
	client  Client
}

func TestLiveClientSuite(t *testing.T) {
	suite.Run(t, new(LiveClientSuite))
}

func (s *LiveClientSuite) SetupTest() {
	s.handler = nil
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handler(w, r)
	}))
	s.client = New(config.CaptureConfig{
		BaseURL: s.server.URL + "/api/v3",
		APIKey:  "live-key",
		Chain:   "numbers-mainnet",
		Timeout: 2 * time.Second,
	}, WithLogger(discardLogger()))
	s.Require().True(s.client.Live())
}

func (s *LiveClientSuite) TearDownTest() {
	s.server.Close()
}

func eventWithMetadata(t *testing.T, doc string) models.Event {
	var md models.Metadata
	require.NoError(t, json.Unmarshal([]byte(doc), &md))
	return models.Event{
		EventType:  models.EventTypeBookingCreated,
		BookingID:  "b1",
		PropertyID: "p1",
		Actor:      "0x" + strings.Repeat("a", 40),
		OccurredAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Metadata:   md,
	}
}

func (s *LiveClientSuite) eventPayload() Payload {
	p, err := EventPayload(eventWithMetadata(s.T(), `{"amount":2500}`), "k1")
	s.Require().NoError(err)
	return p
}

func (s *LiveClientSuite) TestLargeIntegerAnchoredVerbatim() {
	var custom string
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(r.ParseMultipartForm(1 << 20))
		custom = r.FormValue("nit_commit_custom")
		_, _ = w.Write([]byte(`{"cid":"bafy-big"}`))
	}

	event := eventWithMetadata(s.T(), `{"deposit":9007199254740992,"fee":0.1,"note":"a<b & c"}`)
	s.Require().NoError(event.Validate())
	p, err := EventPayload(event, "k-big")
	s.Require().NoError(err)

	_, err = s.client.Commit(context.Background(), p)
	s.Require().NoError(err)
	s.Contains(custom, `"metadata":{"deposit":9007199254740992,"fee":0.1,"note":"a<b & c"}`)
	s.Equal(string(p.CustomMetadata.(json.RawMessage)), custom)
}

func (s *LiveClientSuite) TestUnrepresentableNumberFailsBeforeSending() {
	hits := 0
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"cid":"bafy-x"}`))
	}

	_, err := EventPayload(eventWithMetadata(s.T(), `{"x":1e400}`), "k1")
	s.Require().Error(err)
	s.False(IsUpstream(err))
	s.Zero(hits)
}

func (s *LiveClientSuite) TestSubmitsMultipartAndMapsResponse() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		s.Equal("/api/v3/assets/", r.URL.Path)
		s.Equal("token live-key", r.Header.Get("Authorization"))
		s.Require().NoError(r.ParseMultipartForm(1 << 20))

		s.Equal("BookingCreated - b1", r.FormValue("headline"))
		s.Equal("Rental event: BookingCreated for booking b1", r.FormValue("caption"))

		var custom map[string]map[string]any
		s.Require().NoError(json.Unmarshal([]byte(r.FormValue("nit_commit_custom")), &custom))
		s.Equal("k1", custom["proofsy"]["idempotencyKey"])
		s.Equal(map[string]any{"amount": float64(2500)}, custom["proofsy"]["metadata"])

		file, header, err := r.FormFile("asset_file")
		s.Require().NoError(err)
		defer file.Close()
		s.Equal("BookingCreated_k1.txt", header.Filename)
		content, _ := io.ReadAll(file)
		s.JSONEq(`{"bookingId":"b1","eventType":"BookingCreated","timestamp":"2025-01-01T00:00:00Z"}`, string(content))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cid":"bafy-asset","id":"ignored","post_creation_workflow_id":"wf-123"}`))
	}

	receipt, err := s.client.Commit(context.Background(), s.eventPayload())
	s.Require().NoError(err)
	s.Equal("bafy-asset", receipt.AssetNID)
	s.Equal("wf-123", receipt.WorkflowRef)
	s.Equal("numbers-mainnet", receipt.Chain)
	s.Equal(models.ReceiptStatusPendingConfirmation, receipt.Status)
}

func (s *LiveClientSuite) TestFallsBackAlongPreferenceLists() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"cid":"","id":42,"task_id":"task-9"}`))
	}
	receipt, err := s.client.Commit(context.Background(), s.eventPayload())
	s.Require().NoError(err)
	s.Equal("42", receipt.AssetNID)
	s.Equal("task-9", receipt.WorkflowRef)
}

func (s *LiveClientSuite) TestMissingWorkflowUsesPendingReference() {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"cid":"bafy-x"}`))
	}
	receipt, err := s.client.Commit(context.Background(), s.eventPayload())
	s.Require().NoError(err)
	s.Equal("pending_bafy-x", receipt.WorkflowRef)
}

func (s *LiveClientSuite) TestFailures() {
	cases := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantMsg    string
	}{
		{
			name: "non-2xx carries status and body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Invalid token."}`))
			},
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Invalid token.",
		},
		{
			name: "missing asset id",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"task_id":"t"}`))
			},
			wantStatus: http.StatusOK,
			wantMsg:    "no asset identifier",
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
			wantStatus: http.StatusOK,
			wantMsg:    "undecodable",
		},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.handler = tc.handler
			receipt, err := s.client.Commit(context.Background(), s.eventPayload())
			s.Nil(receipt)
			var ue *UpstreamError
			s.Require().ErrorAs(err, &ue)
			s.Equal(tc.wantStatus, ue.StatusCode)
			s.Contains(err.Error(), tc.wantMsg)
		})
	}
}

func (s *LiveClientSuite) TestTimeoutIsUpstreamError() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := s.client.Commit(ctx, s.eventPayload())
	s.Require().Error(err)
	s.True(IsUpstream(err))
}

func TestPhotoPayload(t *testing.T) {
	p := PhotoPayload(Photo{
		BookingID:   "b1",
		UploadedBy:  "host",
		FileName:    "door.jpg",
		ContentType: "image/jpeg",
		Content:     []byte("jpegbytes"),
		UploadedAt:  time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC),
	})
	assert.Equal(t, KindPhoto, p.Kind)
	assert.Equal(t, "Photo for booking b1", p.Headline)
	assert.Equal(t, "Evidence photo uploaded by host for booking b1", p.Caption)

	raw, err := canonicalJSON(p.CustomMetadata)
	require.NoError(t, err)
	assert.Equal(t,
		`{"proofsy_media":{"bookingId":"b1","fileName":"door.jpg","fileSize":9,"mimeType":"image/jpeg","source":"Proofsy - Photo Evidence","uploadedAt":"2025-02-01T09:30:00Z","uploadedBy":"host"}}`,
		string(raw))
}
