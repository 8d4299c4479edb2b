package models

// ReceiptStatus describes how far a commit has progressed.
type ReceiptStatus string

const (
	// ReceiptStatusMock marks receipts synthesized without a ledger credential.
	ReceiptStatusMock ReceiptStatus = "mock"
	// ReceiptStatusPendingConfirmation marks live commits whose chain
	// transaction is still being produced asynchronously.
	ReceiptStatusPendingConfirmation ReceiptStatus = "pending_confirmation"
)

// CommitReceipt is what the ledger returns for a committed asset.
//
// AssetNID is stable and always set. WorkflowRef identifies the asynchronous
// commit and is NOT a chain transaction hash; it must never be rendered as one.
type CommitReceipt struct {
	AssetNID    string        `json:"assetNid"`
	WorkflowRef string        `json:"workflowRef"`
	Chain       string        `json:"chain"`
	Status      ReceiptStatus `json:"status"`
}

// PendingWorkflowRef is the placeholder used when the ledger reports no workflow id.
func PendingWorkflowRef(assetNID string) string {
	return "pending_" + assetNID
}
