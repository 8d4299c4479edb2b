package capture

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"proofsy/internal/ledger/models"
	"proofsy/internal/platform/metrics"
)

// Mock identifiers have a fixed shape: "nid_" + 32 hex and "0x" + 64 hex.
const (
	mockNIDBytes      = 16
	mockWorkflowBytes = 32
)

// MockClient synthesizes receipts without network access. It backs offline
// development and tests.
type MockClient struct {
	chain   string
	metrics *metrics.Metrics
}

// NewMock returns a mock committer tagging receipts with chain.
func NewMock(chain string, m *metrics.Metrics) *MockClient {
	return &MockClient{chain: chain, metrics: m}
}

func (c *MockClient) Live() bool { return false }

func (c *MockClient) Commit(ctx context.Context, payload Payload) (*models.CommitReceipt, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		c.metrics.ObserveCommit(string(payload.Kind), "error", start)
		return nil, &UpstreamError{Message: "commit cancelled", Err: err}
	}
	receipt := &models.CommitReceipt{
		AssetNID:    "nid_" + randomHex(mockNIDBytes),
		WorkflowRef: "0x" + randomHex(mockWorkflowBytes),
		Chain:       c.chain,
		Status:      models.ReceiptStatusMock,
	}
	c.metrics.ObserveCommit(string(payload.Kind), "mock", start)
	return receipt, nil
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
