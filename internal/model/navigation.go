package model

// Screen is a registered route name in the owner app
type Screen string

const (
	ScreenLogin              Screen = "Login"
	ScreenProperties         Screen = "Properties"
	ScreenPropertyDetail     Screen = "PropertyDetail"
	ScreenRoomDetail         Screen = "RoomDetail"
	ScreenTransactionDetails Screen = "TransactionDetails"
	ScreenTenantDocuments    Screen = "TenantDocuments"
)

// Params are route parameters. Values are strings except TransactionDetails'
// previousReading, which is numeric.
type Params map[string]any

// Route is one entry of the navigation back-stack
type Route struct {
	Name   Screen `json:"name"`
	Params Params `json:"params,omitempty"`
}

// Target is a derived (screen, params) pair resolved from notification data
type Target struct {
	Screen Screen
	Params Params
}
