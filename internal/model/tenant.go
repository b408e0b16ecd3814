package model

import (
	"errors"
	"time"
)

// Relation describes how a person relates to the tenancy's head person
type Relation struct {
	RelationWith *string `json:"relationWith"`
	RelationType string  `json:"relationType"`
}

// Person is an occupant listed on a tenancy
type Person struct {
	ID          string    `json:"_id,omitempty"`
	Name        string    `json:"name"`
	DOB         string    `json:"dob"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Gender      string    `json:"gender"`
	IsHead      bool      `json:"isHead"`
	Relation    *Relation `json:"relation,omitempty"`
}

// Tenant is a tenancy of a room. Money fields keep the API's casing.
type Tenant struct {
	ID             string   `json:"_id"`
	HeadPerson     *Person  `json:"headPerson,omitempty"`
	Persons        []Person `json:"Persons"`
	StartDate      string   `json:"startDate"`
	EndDate        *string  `json:"endDate"`
	Rent           float64  `json:"Rent"`
	InitialReading float64  `json:"initialReading"`
	FinalReading   float64  `json:"finalReading"`
	PendingMoney   float64  `json:"PendingMoney"`
	AdvanceMoney   float64  `json:"AdvanceMoney"`
}

// Active reports whether the tenant has not been marked as left
func (t Tenant) Active() bool {
	return t.EndDate == nil || *t.EndDate == ""
}

// AddTenantRequest is the body for POST /tenant/addTenant/{roomId}
type AddTenantRequest struct {
	StartDate      string   `json:"startDate"`
	EndDate        *string  `json:"endDate"`
	Rent           string   `json:"Rent"`
	InitialReading string   `json:"initialReading"`
	Persons        []Person `json:"Persons"`
}

// RemoveTenantRequest is the body for POST /tenant/removeTenant/{roomId}
type RemoveTenantRequest struct {
	EndDate  string `json:"endDate"`
	TenantID string `json:"tenantId"`
}

// RoomDetailsResponse is the body of GET /room/details/{roomId}
type RoomDetailsResponse struct {
	Tenant []Tenant `json:"tenant"`
}

// Transaction is a recorded rent payment
type Transaction struct {
	ID              string  `json:"_id"`
	DOP             string  `json:"DOP"` // date of payment
	MOP             string  `json:"MOP"` // mode of payment
	RoomRent        float64 `json:"RoomRent"`
	CurrentReading  float64 `json:"currentReading"`
	PreviousReading float64 `json:"previousReading"`
	BuildReading    float64 `json:"BuildReading"`
	Bill            float64 `json:"Bill"`
	TotalAmount     float64 `json:"totalAmount"`
	Status          string  `json:"status"`
}

// TransactionListResponse is the body of GET /tenant/getTransaction/{tenantId}
type TransactionListResponse struct {
	Transaction []Transaction `json:"transaction"`
}

// UnitRate is the electricity charge per meter unit
const UnitRate = 6

// PaymentStatusPaid is the only status the owner app records
const PaymentStatusPaid = "Paid"

// PaymentRequest is the body for POST /payment/addPayment
type PaymentRequest struct {
	Room            string  `json:"room"`
	Tenant          string  `json:"tenant"`
	DOP             string  `json:"DOP"`
	MOP             string  `json:"MOP"`
	RoomRent        float64 `json:"RoomRent"`
	CurrentReading  float64 `json:"currentReading"`
	PreviousReading float64 `json:"previousReading"`
	BuildReading    float64 `json:"BuildReading"`
	Bill            float64 `json:"Bill"`
	Status          string  `json:"status"`
}

// PaymentResponse is the body of POST /payment/addPayment
type PaymentResponse struct {
	Payment Transaction `json:"payment"`
}

// NewPaymentRequest builds a payment with the metered bill computed from the readings.
func NewPaymentRequest(roomID, tenantID, mop string, dop time.Time, rent, previous, current float64) (PaymentRequest, error) {
	if roomID == "" || tenantID == "" {
		return PaymentRequest{}, ErrPaymentTarget
	}
	if current < previous {
		return PaymentRequest{}, ErrReadingDecreased
	}
	units := current - previous
	return PaymentRequest{
		Room:            roomID,
		Tenant:          tenantID,
		DOP:             dop.Format("2006-01-02"),
		MOP:             mop,
		RoomRent:        rent,
		CurrentReading:  current,
		PreviousReading: previous,
		BuildReading:    units,
		Bill:            units * UnitRate,
		Status:          PaymentStatusPaid,
	}, nil
}

var (
	// ErrReadingDecreased is returned when the current meter reading is below the previous one
	ErrReadingDecreased = errors.New("current reading must be greater than previous reading")

	// ErrPaymentTarget is returned when a payment lacks its room or tenant
	ErrPaymentTarget = errors.New("payment requires room and tenant")
)
