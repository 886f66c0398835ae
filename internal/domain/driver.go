package domain

import "time"

// VehicleType represents the kind of vehicle a driver operates.
type VehicleType string

const (
	VehicleTypeBoda VehicleType = "boda"
	VehicleTypeTaxi VehicleType = "taxi"
	VehicleTypeUber VehicleType = "uber"
	VehicleTypeBolt VehicleType = "bolt"
)

// Driver represents a registered driver who receives payments via QR code.
//
// PendingBalance accrues as collections complete and is only moved to
// PaidBalance once a disbursement to the driver's mobile money account
// succeeds. Both fields are mutated exclusively through the repository's
// atomic operations.
type Driver struct {
	ID             string
	Name           string
	Phone          string
	Email          string
	PasswordHash   string
	VehicleType    VehicleType
	VehicleNumber  string
	QRCodeURL      string
	PendingBalance float64
	PaidBalance    float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
