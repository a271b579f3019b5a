package request

type MarkPaidRequest struct {
	TransactionID string `json:"transaction_id" binding:"required,max=128"`
}
