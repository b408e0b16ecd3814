package service

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// PaymentService records rent payments.
type PaymentService struct {
	api API
}

func NewPaymentService(api API) *PaymentService {
	return &PaymentService{api: api}
}

// Add records a payment built with model.NewPaymentRequest.
func (s *PaymentService) Add(ctx context.Context, req model.PaymentRequest) (*model.Transaction, error) {
	if req.Room == "" || req.Tenant == "" {
		return nil, model.ErrPaymentTarget
	}
	if req.CurrentReading < req.PreviousReading {
		return nil, model.ErrReadingDecreased
	}

	var resp model.PaymentResponse
	if err := s.api.JSON(ctx, http.MethodPost, "/payment/addPayment", req, &resp); err != nil {
		return nil, fmt.Errorf("add payment: %w", err)
	}

	log.Printf("[PaymentService] Payment recorded id=%s tenant=%s bill=%.2f", resp.Payment.ID, req.Tenant, req.Bill)
	return &resp.Payment, nil
}
