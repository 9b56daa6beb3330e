package paymentprovider

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// OrdersClient реализует стиль "orders": Checkout Orders v2,
// заказ создаётся с intent CAPTURE и захватывается по токену возврата.
type OrdersClient struct {
	*Client
}

type orderAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type createOrderRequest struct {
	Intent        string `json:"intent"`
	PurchaseUnits []struct {
		Amount      orderAmount `json:"amount"`
		Description string      `json:"description,omitempty"`
	} `json:"purchase_units"`
	ApplicationContext struct {
		ReturnURL string `json:"return_url"`
		CancelURL string `json:"cancel_url"`
	} `json:"application_context"`
}

type orderResponse struct {
	ID    string `json:"id"`
	Links []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

type captureOrderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string      `json:"id"`
				Status string      `json:"status"`
				Amount orderAmount `json:"amount"`
				Create string      `json:"create_time"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CreateOrder создаёт заказ и возвращает ссылку подтверждения (rel=approve).
func (c *OrdersClient) CreateOrder(ctx context.Context, amount, currency, returnURL, cancelURL string) (*Order, error) {
	const op = "paymentprovider.orders.CreateOrder"

	var reqBody createOrderRequest
	reqBody.Intent = "CAPTURE"
	reqBody.PurchaseUnits = make([]struct {
		Amount      orderAmount `json:"amount"`
		Description string      `json:"description,omitempty"`
	}, 1)
	reqBody.PurchaseUnits[0].Amount = orderAmount{CurrencyCode: currency, Value: amount}
	reqBody.PurchaseUnits[0].Description = "Upgrade to Premium Plan"
	reqBody.ApplicationContext.ReturnURL = returnURL
	reqBody.ApplicationContext.CancelURL = cancelURL

	var resp orderResponse
	requestID := uuid.New().String()
	if err := c.doJSON(ctx, "POST", "/v2/checkout/orders", requestID, reqBody, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, link := range resp.Links {
		if link.Rel == "approve" {
			return &Order{Ref: resp.ID, ApprovalURL: link.Href}, nil
		}
	}
	return nil, fmt.Errorf("%s: no approval link in order response", op)
}

// CaptureOrder захватывает заказ по его id. payerID в этом стиле не нужен.
func (c *OrdersClient) CaptureOrder(ctx context.Context, ref, _ string) (*Capture, error) {
	const op = "paymentprovider.orders.CaptureOrder"

	var resp captureOrderResponse
	path := "/v2/checkout/orders/" + ref + "/capture"
	if err := c.doJSON(ctx, "POST", path, "", nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(resp.PurchaseUnits) == 0 || len(resp.PurchaseUnits[0].Payments.Captures) == 0 {
		return nil, fmt.Errorf("%s: no captures in order response", op)
	}
	capture := resp.PurchaseUnits[0].Payments.Captures[0]
	return &Capture{
		TransactionID: capture.ID,
		Status:        capture.Status,
		Amount:        capture.Amount.Value,
		Currency:      capture.Amount.CurrencyCode,
		Timestamp:     parseTime(capture.Create),
	}, nil
}
