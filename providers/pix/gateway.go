package pix

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// apiGateway talks to the hosted PIX charge API configured through
// PIX_API_URL / PIX_API_KEY.
type apiGateway struct {
	client *http.Client
}

func init() {
	Register("api", &apiGateway{client: &http.Client{Timeout: 10 * time.Second}})
}

type apiChargeResponse struct {
	ID            string `json:"id"`
	QRCode        string `json:"qr_code"`
	CopyPasteCode string `json:"copy_paste_code"`
	Error         struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	} `json:"error"`
}

type apiStatusResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	EndToEndID string `json:"end_to_end_id"`
	Error      struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	} `json:"error"`
}

func (g *apiGateway) CreateCharge(chargeReq ChargeRequest) (*Charge, error) {
	payload := map[string]any{
		"amount":     chargeReq.Amount.StringFixed(2),
		"payer_name": chargeReq.PayerName,
		"reference":  chargeReq.Reference,
	}

	body, _ := json.Marshal(payload)
	url := os.Getenv("PIX_API_URL") + "/v1/charges"

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+os.Getenv("PIX_API_KEY"))

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	rawResp, _ := io.ReadAll(resp.Body)

	var result apiChargeResponse
	if err := json.Unmarshal(rawResp, &result); err != nil {
		return nil, fmt.Errorf("decode error: %v", err)
	}

	if result.Error.Code != 0 {
		return nil, fmt.Errorf("API error: %s", result.Error.Msg)
	}

	return &Charge{
		ExternalID:    result.ID,
		QRPayload:     result.QRCode,
		CopyPasteCode: result.CopyPasteCode,
	}, nil
}

func (g *apiGateway) GetCharge(externalID string) (*ChargeStatus, error) {
	url := os.Getenv("PIX_API_URL") + "/v1/charges/" + externalID

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+os.Getenv("PIX_API_KEY"))

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	rawResp, _ := io.ReadAll(resp.Body)

	var result apiStatusResponse
	if err := json.Unmarshal(rawResp, &result); err != nil {
		return nil, fmt.Errorf("decode error: %v", err)
	}

	if result.Error.Code != 0 {
		return nil, fmt.Errorf("API error: %s", result.Error.Msg)
	}

	status := strings.ToUpper(result.Status)

	return &ChargeStatus{
		Paid:       status == "PAID" || status == "COMPLETED" || status == "CONFIRMED",
		Failed:     status == "FAILED" || status == "REFUSED",
		RawStatus:  status,
		EndToEndID: result.EndToEndID,
	}, nil
}
