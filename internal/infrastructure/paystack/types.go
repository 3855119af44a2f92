package paystack

// Paystack wraps every response in the same envelope; Data carries the
// payload and Status is false on business-level failures even with HTTP 200.
type envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

type InitializeTransactionRequest struct {
	Email       string `json:"email"`
	AmountKobo  int64  `json:"amount"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

type InitializeTransactionResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type TransactionStatus struct {
	Reference  string `json:"reference"`
	Status     string `json:"status"`
	AmountKobo int64  `json:"amount"`
	Currency   string `json:"currency"`
	Channel    string `json:"channel"`
	PaidAt     string `json:"paid_at"`
}

// Success reports whether the gateway considers the charge final and paid.
func (t TransactionStatus) Success() bool {
	return t.Status == "success"
}

type Bank struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type ResolvedAccount struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

type TransferRecipient struct {
	RecipientCode string `json:"recipient_code"`
}

type InitiateTransferRequest struct {
	Source        string `json:"source"`
	AmountKobo    int64  `json:"amount"`
	RecipientCode string `json:"recipient"`
	Reference     string `json:"reference"`
	Reason        string `json:"reason,omitempty"`
}

type Transfer struct {
	TransferCode string `json:"transfer_code"`
	Status       string `json:"status"`
	Reference    string `json:"reference"`
}
