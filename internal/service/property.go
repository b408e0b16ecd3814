package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// PropertyService manages properties and their rooms.
type PropertyService struct {
	api API
}

func NewPropertyService(api API) *PropertyService {
	return &PropertyService{api: api}
}

// List returns the owner's properties. Rooms come back as IDs only.
func (s *PropertyService) List(ctx context.Context) ([]model.Property, error) {
	var resp model.PropertyListResponse
	if err := s.api.JSON(ctx, http.MethodGet, "/properties/get-properties", nil, &resp); err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return resp.Properties, nil
}

// Add creates a property with no rooms.
func (s *PropertyService) Add(ctx context.Context, name string, address model.Address) (*model.Property, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrPropertyNameRequired
	}

	req := model.AddPropertyRequest{PropertyName: name, Address: address, Rooms: []string{}}
	var property model.Property
	if err := s.api.JSON(ctx, http.MethodPost, "/properties/add-property", req, &property); err != nil {
		return nil, fmt.Errorf("add property: %w", err)
	}

	log.Printf("[PropertyService] Added property id=%s name=%s", property.ID, property.Name)
	return &property, nil
}

// Get returns one property with its rooms expanded.
func (s *PropertyService) Get(ctx context.Context, propertyID string) (*model.Property, error) {
	var property model.Property
	if err := s.api.JSON(ctx, http.MethodGet, "/properties/get-property/"+url.PathEscape(propertyID), nil, &property); err != nil {
		return nil, fmt.Errorf("get property %s: %w", propertyID, err)
	}
	return &property, nil
}

// AddRoom creates a room under a property.
func (s *PropertyService) AddRoom(ctx context.Context, propertyID, roomName string) (*model.Room, error) {
	roomName = strings.TrimSpace(roomName)
	if roomName == "" {
		return nil, model.ErrRoomNameRequired
	}

	var resp model.AddRoomResponse
	path := "/room/addroom/" + url.PathEscape(propertyID)
	if err := s.api.JSON(ctx, http.MethodPost, path, model.AddRoomRequest{RoomName: roomName}, &resp); err != nil {
		return nil, fmt.Errorf("add room: %w", err)
	}

	log.Printf("[PropertyService] Added room id=%s property=%s", resp.Room.ID, propertyID)
	return &resp.Room, nil
}

// RoomTenants returns every tenancy of a room, past and current.
func (s *PropertyService) RoomTenants(ctx context.Context, roomID string) ([]model.Tenant, error) {
	var resp model.RoomDetailsResponse
	if err := s.api.JSON(ctx, http.MethodGet, "/room/details/"+url.PathEscape(roomID), nil, &resp); err != nil {
		return nil, fmt.Errorf("room details %s: %w", roomID, err)
	}
	return resp.Tenant, nil
}
