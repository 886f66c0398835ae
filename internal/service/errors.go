package service

import "errors"

var (
	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidTransactionID is returned when transaction ID is empty.
	ErrInvalidTransactionID = errors.New("invalid transaction id")

	// ErrInvalidPaymentAmount is returned when payment amount is not positive.
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")

	// ErrInvalidPhone is returned when a phone number is empty.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrInvalidPassword is returned when a registration password is too short.
	ErrInvalidPassword = errors.New("password must be at least 8 characters")

	// ErrInvalidVehicleType is returned when the vehicle type is not supported.
	ErrInvalidVehicleType = errors.New("invalid vehicle type")

	// ErrDriverExists is returned when a driver with the phone number is
	// already registered.
	ErrDriverExists = errors.New("driver already registered with this phone")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid phone or password")

	// ErrSweepAlreadyRunning is returned when a batch payout sweep is
	// requested while another one holds the sweep lock.
	ErrSweepAlreadyRunning = errors.New("batch payout sweep already running")
)
