package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// ErrTenantRequired is returned when a tenancy operation has no tenant id.
var ErrTenantRequired = errors.New("tenant id is required")

// TenantService manages tenancies of a room.
type TenantService struct {
	api API
}

func NewTenantService(api API) *TenantService {
	return &TenantService{api: api}
}

// Add registers a tenancy in a room.
func (s *TenantService) Add(ctx context.Context, roomID string, req model.AddTenantRequest) (*model.Tenant, error) {
	if len(req.Persons) == 0 {
		return nil, fmt.Errorf("add tenant: at least one person is required")
	}

	var tenant model.Tenant
	path := "/tenant/addTenant/" + url.PathEscape(roomID)
	if err := s.api.JSON(ctx, http.MethodPost, path, req, &tenant); err != nil {
		return nil, fmt.Errorf("add tenant: %w", err)
	}

	log.Printf("[TenantService] Added tenant id=%s room=%s", tenant.ID, roomID)
	return &tenant, nil
}

// Remove marks a tenant as having left the room on endDate.
func (s *TenantService) Remove(ctx context.Context, roomID, tenantID string, endDate time.Time) error {
	if tenantID == "" {
		return ErrTenantRequired
	}

	req := model.RemoveTenantRequest{EndDate: endDate.Format("2006-01-02"), TenantID: tenantID}
	path := "/tenant/removeTenant/" + url.PathEscape(roomID)
	if err := s.api.JSON(ctx, http.MethodPost, path, req, nil); err != nil {
		return fmt.Errorf("remove tenant: %w", err)
	}

	log.Printf("[TenantService] Removed tenant id=%s room=%s", tenantID, roomID)
	return nil
}

// Transactions lists a tenant's recorded payments.
func (s *TenantService) Transactions(ctx context.Context, tenantID string) ([]model.Transaction, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}
	var resp model.TransactionListResponse
	if err := s.api.JSON(ctx, http.MethodGet, "/tenant/getTransaction/"+url.PathEscape(tenantID), nil, &resp); err != nil {
		return nil, fmt.Errorf("transactions %s: %w", tenantID, err)
	}
	return resp.Transaction, nil
}
