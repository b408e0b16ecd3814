// Package service holds the owner API calls made by the app, one method per endpoint.
package service

import (
	"context"

	"github.com/ShubhamP528/RentManagement-frontend/internal/gateway"
)

// API is the request surface services need from the gateway.
type API interface {
	Do(ctx context.Context, req gateway.Request) (*gateway.Response, error)
	JSON(ctx context.Context, method, path string, in, out any) error
	PublicJSON(ctx context.Context, method, path string, in, out any) error
}

// Services bundles every owner API client.
type Services struct {
	Auth       *AuthService
	Properties *PropertyService
	Tenants    *TenantService
	Payments   *PaymentService
	Documents  *DocumentService
	Version    *VersionService
}

// New builds all services on one API. versionEndpoint and installed feed the version check.
func New(api API, versionEndpoint, installed string) *Services {
	return &Services{
		Auth:       NewAuthService(api),
		Properties: NewPropertyService(api),
		Tenants:    NewTenantService(api),
		Payments:   NewPaymentService(api),
		Documents:  NewDocumentService(api),
		Version:    NewVersionService(api, versionEndpoint, installed),
	}
}
