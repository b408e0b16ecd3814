package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// VersionStatus compares the installed build with the published one.
type VersionStatus struct {
	Installed       string
	Latest          model.AppVersion
	UpdateAvailable bool
}

// VersionService checks for a newer app build.
type VersionService struct {
	api       API
	endpoint  string
	installed string
}

func NewVersionService(api API, endpoint, installed string) *VersionService {
	return &VersionService{api: api, endpoint: endpoint, installed: installed}
}

// Check fetches the published version without credentials. Any difference
// from the installed version counts as an update.
func (s *VersionService) Check(ctx context.Context) (*VersionStatus, error) {
	var latest model.AppVersion
	if err := s.api.PublicJSON(ctx, http.MethodGet, s.endpoint, nil, &latest); err != nil {
		return nil, fmt.Errorf("check app version: %w", err)
	}
	if latest.LatestVersion == "" {
		return nil, fmt.Errorf("check app version: %w: no latestVersion", model.ErrMalformedResponse)
	}

	return &VersionStatus{
		Installed:       s.installed,
		Latest:          latest,
		UpdateAvailable: strings.TrimSpace(latest.LatestVersion) != strings.TrimSpace(s.installed),
	}, nil
}
