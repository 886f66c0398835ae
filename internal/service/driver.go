package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"payswiftly/internal/domain"
	"payswiftly/internal/redis"
	"payswiftly/internal/repository"
)

const historyLimit = 50

// DriverService handles driver registration and dashboard reads.
type DriverService struct {
	driverRepo      repository.DriverRepository
	transactionRepo repository.TransactionRepository
	payoutRepo      repository.PayoutRepository
	statsRepo       repository.StatsRepository
	cache           redis.CacheStoreInterface
	qr              *QRGenerator
}

// NewDriverService creates a new DriverService.
func NewDriverService(
	driverRepo repository.DriverRepository,
	transactionRepo repository.TransactionRepository,
	payoutRepo repository.PayoutRepository,
	statsRepo repository.StatsRepository,
	cache redis.CacheStoreInterface,
	qr *QRGenerator,
) *DriverService {
	return &DriverService{
		driverRepo:      driverRepo,
		transactionRepo: transactionRepo,
		payoutRepo:      payoutRepo,
		statsRepo:       statsRepo,
		cache:           cache,
		qr:              qr,
	}
}

// RegisterDriverRequest contains the parameters for driver registration.
type RegisterDriverRequest struct {
	Name          string
	Phone         string
	Email         string
	Password      string
	VehicleType   string
	VehicleNumber string
}

// Register creates a driver and their payment QR code.
func (s *DriverService) Register(ctx context.Context, req RegisterDriverRequest) (*domain.Driver, error) {
	if req.Phone == "" {
		return nil, ErrInvalidPhone
	}

	if len(req.Password) < 8 {
		return nil, ErrInvalidPassword
	}

	vehicleType, ok := parseVehicleType(req.VehicleType)
	if !ok {
		return nil, ErrInvalidVehicleType
	}

	existing, err := s.driverRepo.GetByPhone(ctx, req.Phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDriverExists
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	driver := &domain.Driver{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		PasswordHash:  passwordHash,
		VehicleType:   vehicleType,
		VehicleNumber: req.VehicleNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, err
	}

	if err := s.statsRepo.RecordDriverRegistered(ctx); err != nil {
		log.Printf("recording driver registration stat: %v", err)
	}

	qrURL, err := s.qr.PaymentQR(driver.ID)
	if err != nil {
		// The driver exists; the QR can be regenerated on next fetch.
		log.Printf("generating QR for driver %s: %v", driver.ID, err)
		return driver, nil
	}

	if err := s.driverRepo.UpdateQRCodeURL(ctx, driver.ID, qrURL); err != nil {
		return nil, err
	}
	driver.QRCodeURL = qrURL

	return driver, nil
}

// GetDriver retrieves a driver by ID.
func (s *DriverService) GetDriver(ctx context.Context, driverID string) (*domain.Driver, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	return s.driverRepo.GetByID(ctx, driverID)
}

// GetPublicCard returns the passenger-facing view of a driver, cached so the
// pay page does not hit the database on every scan.
func (s *DriverService) GetPublicCard(ctx context.Context, driverID string) (*redis.CachedDriver, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	if s.cache != nil {
		cached, err := s.cache.GetDriver(ctx, driverID)
		if err != nil {
			log.Printf("driver cache read for %s: %v", driverID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	card := &redis.CachedDriver{
		ID:            driver.ID,
		Name:          driver.Name,
		VehicleType:   string(driver.VehicleType),
		VehicleNumber: driver.VehicleNumber,
		QRCodeURL:     driver.QRCodeURL,
	}

	if s.cache != nil {
		if err := s.cache.SetDriver(ctx, card); err != nil {
			log.Printf("driver cache write for %s: %v", driverID, err)
		}
	}

	return card, nil
}

// Transactions returns a driver's recent transactions.
func (s *DriverService) Transactions(ctx context.Context, driverID string) ([]*domain.Transaction, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	return s.transactionRepo.ListByDriver(ctx, driverID, historyLimit)
}

// Payouts returns a driver's recent payouts.
func (s *DriverService) Payouts(ctx context.Context, driverID string) ([]*domain.Payout, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	return s.payoutRepo.ListByDriver(ctx, driverID, historyLimit)
}

func parseVehicleType(value string) (domain.VehicleType, bool) {
	switch domain.VehicleType(value) {
	case domain.VehicleTypeBoda, domain.VehicleTypeTaxi, domain.VehicleTypeUber, domain.VehicleTypeBolt:
		return domain.VehicleType(value), true
	}
	return "", false
}
