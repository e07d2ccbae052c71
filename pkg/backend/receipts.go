package backend

import (
	"context"
)

// ReceiptArtifact points at a rendered, printable receipt. The renderer is
// a black box; the terminal only hands the artifact to the register UI.
type ReceiptArtifact struct {
	TransactionID string `json:"transaction_id"`
	URL           string `json:"url"`
	ContentType   string `json:"content_type"`
}

type renderReceiptRequest struct {
	TransactionID string `json:"transaction_id"`
	BranchID      string `json:"branch_id"`
}

// RenderReceipt asks the renderer for a printable artifact of a persisted
// transaction plus its branch metadata.
func (c *Client) RenderReceipt(ctx context.Context, transactionID, branchID string) (*ReceiptArtifact, error) {
	body := renderReceiptRequest{TransactionID: transactionID, BranchID: branchID}
	var artifact ReceiptArtifact
	if err := c.do(ctx, "POST", "/api/v1/receipts/render", nil, body, &artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}

// ShareReceipt hands a pre-formatted receipt text for the transaction to
// the messaging channel addressed at the given phone.
func (c *Client) ShareReceipt(ctx context.Context, phone, transactionID, message string) error {
	body := map[string]string{
		"phone":          phone,
		"transaction_id": transactionID,
		"message":        message,
	}
	return c.do(ctx, "POST", "/api/v1/messages/receipt", nil, body, nil)
}
