package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"

	jsoniter "github.com/json-iterator/go"
)

//nolint:gochecknoglobals
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event is the decoded webhook envelope. Only the fields settlement needs
// are pulled out; the rest of the payload is ignored.
type Event struct {
	Type      string
	Reference string
	Reason    string
}

const (
	EventChargeSuccess    = "charge.success"
	EventTransferSuccess  = "transfer.success"
	EventTransferFailed   = "transfer.failed"
	EventTransferReversed = "transfer.reversed"
)

// VerifySignature checks the HMAC-SHA512 of the raw body against the
// signature header. Constant-time comparison, same as the gateway docs
// prescribe.
func VerifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)

	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseEvent decodes the webhook body into the minimal Event.
func ParseEvent(body []byte) (Event, error) {
	var payload struct {
		Event string `json:"event"`
		Data  struct {
			Reference string `json:"reference"`
			Reason    string `json:"reason"`
			Status    string `json:"status"`
		} `json:"data"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return Event{}, err //nolint:wrapcheck
	}

	return Event{
		Type:      payload.Event,
		Reference: payload.Data.Reference,
		Reason:    payload.Data.Reason,
	}, nil
}
