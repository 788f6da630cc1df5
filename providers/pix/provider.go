package pix

import (
	"strings"

	"github.com/shopspring/decimal"
)

type ChargeRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	PayerName string          `json:"payer_name"`
	Reference string          `json:"reference"`
}

type Charge struct {
	ExternalID    string `json:"external_id"`
	QRPayload     string `json:"qr_payload"`
	CopyPasteCode string `json:"copy_paste_code"`
}

type ChargeStatus struct {
	Paid       bool   `json:"paid"`
	Failed     bool   `json:"failed"`
	RawStatus  string `json:"raw_status"`
	EndToEndID string `json:"end_to_end_id"`
}

// Gateway is one PIX provider integration. Both confirmation channels end up
// in the same order transition, so a gateway only has to create charges and
// report their current status.
type Gateway interface {
	CreateCharge(req ChargeRequest) (*Charge, error)
	GetCharge(externalID string) (*ChargeStatus, error)
}

var gateways = map[string]Gateway{}

func Register(name string, gw Gateway) {
	gateways[strings.ToLower(name)] = gw
}

func Get(name string) Gateway {
	return gateways[strings.ToLower(name)]
}
