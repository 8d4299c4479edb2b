package capture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gowebpki/jcs"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"proofsy/internal/ledger/models"
	"proofsy/internal/platform/metrics"
)

// Response fields checked, in order, for the asset identifier and the
// asynchronous workflow identifier.
var (
	assetIDFields    = []string{"cid", "id", "nid"}
	workflowIDFields = []string{"post_creation_workflow_id", "task_id"}
)

const maxErrorBody = 4 << 10

var tracer = otel.Tracer("proofsy/internal/capture")

// HTTPClient talks to the live Capture API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	chain   string
	http    *http.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func (c *HTTPClient) Live() bool { return true }

// Commit posts the payload as a multipart asset upload.
func (c *HTTPClient) Commit(ctx context.Context, payload Payload) (*models.CommitReceipt, error) {
	ctx, span := tracer.Start(ctx, "capture.Commit")
	defer span.End()
	span.SetAttributes(attribute.String("capture.kind", string(payload.Kind)))

	start := time.Now()
	receipt, err := c.commit(ctx, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		c.metrics.ObserveCommit(string(payload.Kind), "error", start)
		c.logger.ErrorContext(ctx, "capture commit failed",
			"kind", payload.Kind,
			"file_name", payload.FileName,
			"error", err,
		)
		return nil, err
	}
	span.SetAttributes(attribute.String("capture.asset_nid", receipt.AssetNID))
	c.metrics.ObserveCommit(string(payload.Kind), "ok", start)
	c.logger.InfoContext(ctx, "capture commit accepted",
		"kind", payload.Kind,
		"asset_nid", receipt.AssetNID,
		"workflow_ref", receipt.WorkflowRef,
	)
	return receipt, nil
}

func (c *HTTPClient) commit(ctx context.Context, payload Payload) (*models.CommitReceipt, error) {
	body, contentType, err := encodeForm(payload)
	if err != nil {
		return nil, &UpstreamError{Message: "encode payload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/assets/", body)
	if err != nil {
		return nil, &UpstreamError{Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "token "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UpstreamError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: "undecodable response body", Err: err}
	}
	return c.receiptFrom(fields, resp.StatusCode)
}

func (c *HTTPClient) receiptFrom(fields map[string]json.RawMessage, status int) (*models.CommitReceipt, error) {
	nid := firstField(fields, assetIDFields)
	if nid == "" {
		return nil, &UpstreamError{StatusCode: status, Message: "response carries no asset identifier"}
	}
	workflow := firstField(fields, workflowIDFields)
	if workflow == "" {
		workflow = models.PendingWorkflowRef(nid)
	}
	return &models.CommitReceipt{
		AssetNID:    nid,
		WorkflowRef: workflow,
		Chain:       c.chain,
		Status:      models.ReceiptStatusPendingConfirmation,
	}, nil
}

// firstField returns the first non-empty string or number among names.
func firstField(fields map[string]json.RawMessage, names []string) string {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil && n != "" {
			return n.String()
		}
	}
	return ""
}

func encodeForm(p Payload) (io.Reader, string, error) {
	custom, err := customMetadata(p.CustomMetadata)
	if err != nil {
		return nil, "", fmt.Errorf("custom metadata: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := p.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="asset_file"; filename=%q`, p.FileName))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(p.Content); err != nil {
		return nil, "", err
	}

	for _, f := range []struct{ name, value string }{
		{"headline", p.Headline},
		{"caption", p.Caption},
		{"nit_commit_custom", string(custom)},
	} {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func customMetadata(v any) ([]byte, error) {
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	return canonicalJSON(v)
}

// canonicalJSON renders v as RFC 8785 canonical JSON so identical metadata
// always produces identical bytes on the ledger.
func canonicalJSON(v any) ([]byte, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jcs.Transform(raw)
}
