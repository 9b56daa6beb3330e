package paymentprovider

import (
	"context"
	"fmt"
)

// PaymentsClient реализует стиль "payments": Payments API v1,
// платёж создаётся с intent sale и исполняется с payer id.
type PaymentsClient struct {
	*Client
}

type paymentAmount struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type createPaymentRequest struct {
	Intent string `json:"intent"`
	Payer  struct {
		PaymentMethod string `json:"payment_method"`
	} `json:"payer"`
	Transactions []struct {
		Amount      paymentAmount `json:"amount"`
		Description string        `json:"description,omitempty"`
	} `json:"transactions"`
	RedirectURLs struct {
		ReturnURL string `json:"return_url"`
		CancelURL string `json:"cancel_url"`
	} `json:"redirect_urls"`
}

type paymentResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
	Links []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
	Transactions []struct {
		Amount           paymentAmount `json:"amount"`
		RelatedResources []struct {
			Sale struct {
				ID         string        `json:"id"`
				State      string        `json:"state"`
				Amount     paymentAmount `json:"amount"`
				CreateTime string        `json:"create_time"`
			} `json:"sale"`
		} `json:"related_resources"`
	} `json:"transactions"`
}

type executePaymentRequest struct {
	PayerID string `json:"payer_id"`
}

// CreateOrder создаёт платёж и возвращает ссылку подтверждения (rel=approval_url).
func (c *PaymentsClient) CreateOrder(ctx context.Context, amount, currency, returnURL, cancelURL string) (*Order, error) {
	const op = "paymentprovider.payments.CreateOrder"

	var reqBody createPaymentRequest
	reqBody.Intent = "sale"
	reqBody.Payer.PaymentMethod = "paypal"
	reqBody.Transactions = make([]struct {
		Amount      paymentAmount `json:"amount"`
		Description string        `json:"description,omitempty"`
	}, 1)
	reqBody.Transactions[0].Amount = paymentAmount{Total: amount, Currency: currency}
	reqBody.Transactions[0].Description = "Upgrade to Premium Plan"
	reqBody.RedirectURLs.ReturnURL = returnURL
	reqBody.RedirectURLs.CancelURL = cancelURL

	var resp paymentResponse
	if err := c.doJSON(ctx, "POST", "/v1/payments/payment", "", reqBody, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, link := range resp.Links {
		if link.Rel == "approval_url" {
			return &Order{Ref: resp.ID, ApprovalURL: link.Href}, nil
		}
	}
	return nil, fmt.Errorf("%s: no approval link in payment response", op)
}

// CaptureOrder исполняет платёж с переданным payer id.
func (c *PaymentsClient) CaptureOrder(ctx context.Context, ref, payerID string) (*Capture, error) {
	const op = "paymentprovider.payments.CaptureOrder"

	if payerID == "" {
		return nil, fmt.Errorf("%s: payer id is required", op)
	}

	var resp paymentResponse
	path := "/v1/payments/payment/" + ref + "/execute"
	if err := c.doJSON(ctx, "POST", path, "", executePaymentRequest{PayerID: payerID}, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(resp.Transactions) == 0 || len(resp.Transactions[0].RelatedResources) == 0 {
		return nil, fmt.Errorf("%s: no sale in payment response", op)
	}
	sale := resp.Transactions[0].RelatedResources[0].Sale
	return &Capture{
		TransactionID: sale.ID,
		Status:        sale.State,
		Amount:        sale.Amount.Total,
		Currency:      sale.Amount.Currency,
		Timestamp:     parseTime(sale.CreateTime),
	}, nil
}
