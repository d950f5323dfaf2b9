package booking

import (
	"context"
	"fmt"

	"github.com/Roadpeak/D3-client-sub000/gateway"
	"github.com/Roadpeak/D3-client-sub000/models"

	"go.uber.org/zap"
)

// PaymentService initiates mobile-money charges and reads their status.
type PaymentService interface {
	Initiate(ctx context.Context, data models.PaymentData, booking models.BookingRequest) (*models.Payment, error)
	Status(ctx context.Context, paymentID string) (*models.Payment, error)
}

// BackendPaymentService talks to the platform backend's payment endpoints.
// The backend owns the gateway integration; on payment completion it also
// creates the booking, so the completed path performs no separate create
// call.
type BackendPaymentService struct {
	Gateway *gateway.Client
	Logger  *zap.Logger
}

type paymentInitRequest struct {
	Amount      float64               `json:"amount"`
	Currency    string                `json:"currency"`
	Method      string                `json:"method"`
	PhoneNumber string                `json:"phoneNumber"`
	Booking     models.BookingRequest `json:"booking"`
}

func (p *BackendPaymentService) Initiate(ctx context.Context, data models.PaymentData, booking models.BookingRequest) (*models.Payment, error) {
	var resp gateway.PaymentInitResponse
	req := paymentInitRequest{
		Amount:      data.Amount,
		Currency:    data.Currency,
		Method:      data.Method,
		PhoneNumber: data.PhoneNumber,
		Booking:     booking,
	}
	if err := p.Gateway.PostJSON(ctx, "/payments/initiate", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Payment == nil {
		msg := resp.Message
		if msg == "" {
			msg = "payment initiation rejected"
		}
		return nil, fmt.Errorf("failed to initiate payment: %s", msg)
	}
	p.Logger.Info("payment initiated",
		zap.String("paymentId", resp.Payment.ID),
		zap.Float64("amount", data.Amount))
	return resp.Payment, nil
}

func (p *BackendPaymentService) Status(ctx context.Context, paymentID string) (*models.Payment, error) {
	var resp gateway.PaymentStatusResponse
	if err := p.Gateway.GetJSON(ctx, "/payments/"+paymentID+"/status", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Payment == nil {
		return nil, fmt.Errorf("payment status response carried no payment")
	}
	return resp.Payment, nil
}
