package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Address is a property's postal address
type Address struct {
	Pincode  string `json:"pincode"`
	Locality string `json:"locality"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Landmark string `json:"landmark"`
}

// Property represents a rental property owned by the signed-in owner.
// The list endpoint returns room IDs only; the detail endpoint expands them.
type Property struct {
	ID      string   `json:"_id"`
	Name    string   `json:"name"`
	Address Address  `json:"address"`
	Rooms   []Room   `json:"-"`
	RoomIDs []string `json:"-"`
}

type propertyWire struct {
	ID      string          `json:"_id"`
	Name    string          `json:"name"`
	Address Address         `json:"address"`
	Rooms   json.RawMessage `json:"rooms,omitempty"`
}

// UnmarshalJSON accepts rooms either as IDs or as expanded room objects.
func (p *Property) UnmarshalJSON(data []byte) error {
	var w propertyWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.ID, p.Name, p.Address = w.ID, w.Name, w.Address
	p.Rooms, p.RoomIDs = nil, nil
	if len(w.Rooms) == 0 || string(w.Rooms) == "null" {
		return nil
	}

	var ids []string
	if err := json.Unmarshal(w.Rooms, &ids); err == nil {
		p.RoomIDs = ids
		return nil
	}
	var rooms []Room
	if err := json.Unmarshal(w.Rooms, &rooms); err != nil {
		return fmt.Errorf("decode property rooms: %w", err)
	}
	p.Rooms = rooms
	for _, r := range rooms {
		p.RoomIDs = append(p.RoomIDs, r.ID)
	}
	return nil
}

// MarshalJSON emits expanded rooms when present, room IDs otherwise.
func (p Property) MarshalJSON() ([]byte, error) {
	var rooms any = p.RoomIDs
	if len(p.Rooms) > 0 {
		rooms = p.Rooms
	}
	if rooms == nil {
		rooms = []string{}
	}
	return json.Marshal(struct {
		ID      string  `json:"_id"`
		Name    string  `json:"name"`
		Address Address `json:"address"`
		Rooms   any     `json:"rooms"`
	}{p.ID, p.Name, p.Address, rooms})
}

// Room is a rentable unit inside a property
type Room struct {
	ID      string   `json:"_id"`
	Name    string   `json:"name"`
	Tenants []Tenant `json:"tenant,omitempty"`
}

// AddPropertyRequest is the body for POST /properties/add-property
type AddPropertyRequest struct {
	PropertyName string   `json:"propertyName"`
	Address      Address  `json:"address"`
	Rooms        []string `json:"rooms"`
}

// AddRoomRequest is the body for POST /room/addroom/{propertyId}
type AddRoomRequest struct {
	RoomName string `json:"roomName"`
}

// PropertyListResponse is the body of GET /properties/get-properties
type PropertyListResponse struct {
	Properties []Property `json:"properties"`
}

// AddRoomResponse is the body of POST /room/addroom/{propertyId}
type AddRoomResponse struct {
	Room Room `json:"room"`
}

var (
	// ErrPropertyNameRequired is returned when adding a property without a name
	ErrPropertyNameRequired = errors.New("property name is required")

	// ErrRoomNameRequired is returned when adding a room without a name
	ErrRoomNameRequired = errors.New("room name is required")
)
