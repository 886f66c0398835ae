package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"payswiftly/internal/domain"
	"payswiftly/internal/gateway"
	"payswiftly/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters for verification
	CreateCallCount              int32
	MovePendingToPaidCallCount   int32
	ReturnPaidToPendingCallCount int32

	// Error injection
	CreateError              error
	MovePendingToPaidError   error
	ReturnPaidToPendingError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

// GetDriver returns a driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetByPhone(ctx context.Context, phone string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.drivers {
		if d.Phone == phone {
			copy := *d
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockDriverRepository) UpdateQRCodeURL(ctx context.Context, id, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.QRCodeURL = url
	return nil
}

func (m *MockDriverRepository) AddPendingBalance(ctx context.Context, id string, delta float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.PendingBalance += delta
	return nil
}

func (m *MockDriverRepository) MovePendingToPaid(ctx context.Context, id string, amount float64) error {
	atomic.AddInt32(&m.MovePendingToPaidCallCount, 1)
	if m.MovePendingToPaidError != nil {
		return m.MovePendingToPaidError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	if driver.PendingBalance < amount {
		return repository.ErrInsufficientBalance
	}
	driver.PendingBalance -= amount
	driver.PaidBalance += amount
	return nil
}

func (m *MockDriverRepository) ReturnPaidToPending(ctx context.Context, id string, amount float64) error {
	atomic.AddInt32(&m.ReturnPaidToPendingCallCount, 1)
	if m.ReturnPaidToPendingError != nil {
		return m.ReturnPaidToPendingError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	if driver.PaidBalance < amount {
		return repository.ErrNotFound
	}
	driver.PaidBalance -= amount
	driver.PendingBalance += amount
	return nil
}

func (m *MockDriverRepository) ListPayoutEligible(ctx context.Context, threshold float64) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		if d.PendingBalance >= threshold {
			copy := *d
			result = append(result, &copy)
		}
	}
	// Highest balances first, matching the real query.
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].PendingBalance > result[i].PendingBalance {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION REPOSITORY
// ──────────────────────────────────────────────

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	// Counters for verification
	MarkCollectionCompletedCallCount int32
	UpdatePayoutStatusCallCount      int32

	// Error injection
	CreateError             error
	UpdatePayoutStatusError error
}

// NewMockTransactionRepository creates a new mock transaction repository.
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

// AddTransaction adds a transaction to the mock repository.
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[tx.ID] = tx
}

// GetTransaction returns a transaction for test assertions.
func (m *MockTransactionRepository) GetTransaction(id string) *domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transactions[id]
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[tx.ID] = tx
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tx, ok := m.transactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *tx
	return &copy, nil
}

func (m *MockTransactionRepository) GetByCollectionID(ctx context.Context, collectionID string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, tx := range m.transactions {
		if tx.CollectionID == collectionID {
			copy := *tx
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockTransactionRepository) AttachCollection(ctx context.Context, id, collectionID, collectionStatus string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return repository.ErrNotFound
	}
	tx.CollectionID = collectionID
	tx.CollectionStatus = collectionStatus
	return nil
}

func (m *MockTransactionRepository) MarkCollectionCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	atomic.AddInt32(&m.MarkCollectionCompletedCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return false, nil
	}
	if tx.Status != domain.TransactionStatusPending {
		return false, nil
	}
	tx.Status = domain.TransactionStatusPayoutPending
	tx.CollectionStatus = "completed"
	tx.CollectionCompletedAt = &at
	return true, nil
}

func (m *MockTransactionRepository) MarkCollectionFailed(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return false, nil
	}
	if tx.Status != domain.TransactionStatusPending {
		return false, nil
	}
	tx.Status = domain.TransactionStatusFailed
	tx.CollectionStatus = "failed"
	return true, nil
}

func (m *MockTransactionRepository) UpdatePayoutStatus(ctx context.Context, id, payoutStatus, trackingID string) error {
	atomic.AddInt32(&m.UpdatePayoutStatusCallCount, 1)
	if m.UpdatePayoutStatusError != nil {
		return m.UpdatePayoutStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok {
		return repository.ErrNotFound
	}
	tx.PayoutStatus = payoutStatus
	if trackingID != "" {
		tx.TrackingID = trackingID
	}
	return nil
}

func (m *MockTransactionRepository) MarkPayoutCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok || tx.Status != domain.TransactionStatusPayoutPending {
		return false, nil
	}
	tx.Status = domain.TransactionStatusPayoutComplete
	tx.PayoutStatus = domain.TxPayoutStatusCompleted
	tx.PayoutCompletedAt = &at
	return true, nil
}

func (m *MockTransactionRepository) MarkPayoutFailed(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok || tx.Status != domain.TransactionStatusPayoutPending {
		return false, nil
	}
	tx.Status = domain.TransactionStatusPayoutFailed
	tx.PayoutStatus = domain.TxPayoutStatusFailed
	return true, nil
}

func (m *MockTransactionRepository) ListByDriver(ctx context.Context, driverID string, limit int) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Transaction, 0)
	for _, tx := range m.transactions {
		if tx.DriverID == driverID {
			copy := *tx
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockTransactionRepository) ListStalePending(ctx context.Context, before time.Time, limit int) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Transaction, 0)
	for _, tx := range m.transactions {
		if tx.Status == domain.TransactionStatusPending && tx.CollectionID != "" && tx.CreatedAt.Before(before) {
			copy := *tx
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockTransactionRepository) ListStalePayoutPending(ctx context.Context, before time.Time, limit int) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Transaction, 0)
	for _, tx := range m.transactions {
		if tx.Status == domain.TransactionStatusPayoutPending && tx.TrackingID != "" && tx.UpdatedAt.Before(before) {
			copy := *tx
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK PAYOUT REPOSITORY
// ──────────────────────────────────────────────

// MockPayoutRepository is a mock implementation of PayoutRepository.
type MockPayoutRepository struct {
	mu      sync.RWMutex
	payouts map[string]*domain.Payout

	// Counters for verification
	CreateCallCount     int32
	MarkFailedCallCount int32

	// Error injection
	CreateError error
}

// NewMockPayoutRepository creates a new mock payout repository.
func NewMockPayoutRepository() *MockPayoutRepository {
	return &MockPayoutRepository{
		payouts: make(map[string]*domain.Payout),
	}
}

// AddPayout adds a payout to the mock repository.
func (m *MockPayoutRepository) AddPayout(payout *domain.Payout) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payouts[payout.ID] = payout
}

// GetPayout returns a payout for test assertions.
func (m *MockPayoutRepository) GetPayout(id string) *domain.Payout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payouts[id]
}

// CountPayouts returns the number of stored payout records.
func (m *MockPayoutRepository) CountPayouts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payouts)
}

// Payouts returns all payouts for test assertions.
func (m *MockPayoutRepository) Payouts() []*domain.Payout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Payout, 0, len(m.payouts))
	for _, p := range m.payouts {
		copy := *p
		result = append(result, &copy)
	}
	return result
}

func (m *MockPayoutRepository) Create(ctx context.Context, payout *domain.Payout) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payouts[payout.ID] = payout
	return nil
}

func (m *MockPayoutRepository) GetByID(ctx context.Context, id string) (*domain.Payout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payout, ok := m.payouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payout
	return &copy, nil
}

func (m *MockPayoutRepository) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Payout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payouts {
		if p.TrackingID == trackingID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPayoutRepository) MarkProcessing(ctx context.Context, id, trackingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payout, ok := m.payouts[id]
	if !ok || payout.Status != domain.PayoutStatusPending {
		return false, nil
	}
	payout.Status = domain.PayoutStatusProcessing
	payout.TrackingID = trackingID
	return true, nil
}

func (m *MockPayoutRepository) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payout, ok := m.payouts[id]
	if !ok || payout.Status != domain.PayoutStatusProcessing {
		return false, nil
	}
	payout.Status = domain.PayoutStatusCompleted
	payout.CompletedAt = &at
	return true, nil
}

func (m *MockPayoutRepository) MarkFailed(ctx context.Context, id, reason string) (bool, error) {
	atomic.AddInt32(&m.MarkFailedCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	payout, ok := m.payouts[id]
	if !ok {
		return false, nil
	}
	if payout.Status != domain.PayoutStatusPending && payout.Status != domain.PayoutStatusProcessing {
		return false, nil
	}
	payout.Status = domain.PayoutStatusFailed
	payout.FailureReason = reason
	return true, nil
}

func (m *MockPayoutRepository) ListByDriver(ctx context.Context, driverID string, limit int) ([]*domain.Payout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Payout, 0)
	for _, p := range m.payouts {
		if p.DriverID == driverID {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK STATS REPOSITORY
// ──────────────────────────────────────────────

// MockStatsRepository is a mock implementation of StatsRepository.
type MockStatsRepository struct {
	mu    sync.Mutex
	stats domain.AdminStats

	// Counters for verification
	RecordCollectionCallCount      int32
	RecordPayoutCompletedCallCount int32
	RecordPayoutFailedCallCount    int32
}

// NewMockStatsRepository creates a new mock stats repository.
func NewMockStatsRepository() *MockStatsRepository {
	return &MockStatsRepository{}
}

// Stats returns the current aggregate for test assertions.
func (m *MockStatsRepository) Stats() domain.AdminStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func (m *MockStatsRepository) Get(ctx context.Context) (*domain.AdminStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := m.stats
	return &copy, nil
}

func (m *MockStatsRepository) RecordCollection(ctx context.Context, amountPaid, platformFee, driverAmount float64) error {
	atomic.AddInt32(&m.RecordCollectionCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.TotalTransactions++
	m.stats.TotalRevenue += amountPaid
	m.stats.TotalPlatformFees += platformFee
	m.stats.PendingPayouts += driverAmount
	return nil
}

func (m *MockStatsRepository) RecordPayoutCompleted(ctx context.Context, amount float64) error {
	atomic.AddInt32(&m.RecordPayoutCompletedCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.TotalPayouts += amount
	m.stats.PendingPayouts -= amount
	if m.stats.PendingPayouts < 0 {
		m.stats.PendingPayouts = 0
	}
	return nil
}

func (m *MockStatsRepository) RecordPayoutFailed(ctx context.Context) error {
	atomic.AddInt32(&m.RecordPayoutFailedCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.FailedPayouts++
	return nil
}

func (m *MockStatsRepository) RecordDriverRegistered(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.ActiveDrivers++
	return nil
}

// ──────────────────────────────────────────────
// MOCK PAYOUT JOB REPOSITORY
// ──────────────────────────────────────────────

// MockPayoutJobRepository is a mock implementation of PayoutJobRepository.
type MockPayoutJobRepository struct {
	mu   sync.Mutex
	jobs map[string]*domain.PayoutJob

	// Counters for verification
	EnqueueCallCount    int32
	MarkDoneCallCount   int32
	MarkFailedCallCount int32
}

// NewMockPayoutJobRepository creates a new mock payout job repository.
func NewMockPayoutJobRepository() *MockPayoutJobRepository {
	return &MockPayoutJobRepository{
		jobs: make(map[string]*domain.PayoutJob),
	}
}

// AddJob adds a queued job to the mock repository.
func (m *MockPayoutJobRepository) AddJob(job *domain.PayoutJob) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
}

// GetJob returns a job for test assertions.
func (m *MockPayoutJobRepository) GetJob(id string) *domain.PayoutJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs[id]
}

func (m *MockPayoutJobRepository) Enqueue(ctx context.Context, job *domain.PayoutJob) error {
	atomic.AddInt32(&m.EnqueueCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
	return nil
}

func (m *MockPayoutJobRepository) ClaimQueued(ctx context.Context, limit int) ([]*domain.PayoutJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	claimed := make([]*domain.PayoutJob, 0, limit)
	for _, job := range m.jobs {
		if len(claimed) == limit {
			break
		}
		if job.Status == domain.PayoutJobQueued {
			job.Attempts++
			copy := *job
			claimed = append(claimed, &copy)
		}
	}
	return claimed, nil
}

func (m *MockPayoutJobRepository) MarkDone(ctx context.Context, id string) error {
	atomic.AddInt32(&m.MarkDoneCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return repository.ErrNotFound
	}
	job.Status = domain.PayoutJobDone
	return nil
}

func (m *MockPayoutJobRepository) MarkFailed(ctx context.Context, id, reason string) error {
	atomic.AddInt32(&m.MarkFailedCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return repository.ErrNotFound
	}
	job.Status = domain.PayoutJobFailed
	job.LastError = reason
	return nil
}

// ──────────────────────────────────────────────
// MOCK GATEWAY CLIENT
// ──────────────────────────────────────────────

// MockGateway is a mock implementation of GatewayClient. Responses and
// errors are injectable per call; requests are recorded for assertions.
type MockGateway struct {
	mu sync.Mutex

	CollectionResponse *gateway.CollectionResponse
	CollectionError    error
	PayoutResponse     *gateway.PayoutResponse
	PayoutError        error
	StatusResponse     *gateway.StatusResponse
	StatusError        error

	PayoutStatusResponse *gateway.StatusResponse
	PayoutStatusError    error

	// PayoutErrorFor injects an error for a specific phone number only.
	PayoutErrorFor map[string]error

	CollectionRequests   []gateway.CollectionRequest
	PayoutRequests       []gateway.PayoutRequest
	StatusRequests       []string
	PayoutStatusRequests []string
}

// NewMockGateway creates a mock gateway that succeeds by default.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		CollectionResponse: &gateway.CollectionResponse{ID: "col-1", InvoiceID: "inv-1", State: "PENDING"},
		PayoutResponse:     &gateway.PayoutResponse{TrackingID: "track-1", State: "Preview and approve"},
	}
}

func (m *MockGateway) InitiateCollection(ctx context.Context, req gateway.CollectionRequest) (*gateway.CollectionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CollectionRequests = append(m.CollectionRequests, req)
	if m.CollectionError != nil {
		return nil, m.CollectionError
	}
	return m.CollectionResponse, nil
}

func (m *MockGateway) InitiatePayout(ctx context.Context, req gateway.PayoutRequest) (*gateway.PayoutResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PayoutRequests = append(m.PayoutRequests, req)
	if err, ok := m.PayoutErrorFor[req.PhoneNumber]; ok {
		return nil, err
	}
	if m.PayoutError != nil {
		return nil, m.PayoutError
	}
	return m.PayoutResponse, nil
}

func (m *MockGateway) CollectionStatus(ctx context.Context, collectionID string) (*gateway.StatusResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusRequests = append(m.StatusRequests, collectionID)
	if m.StatusError != nil {
		return nil, m.StatusError
	}
	return m.StatusResponse, nil
}

func (m *MockGateway) PayoutStatus(ctx context.Context, trackingID string) (*gateway.StatusResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PayoutStatusRequests = append(m.PayoutStatusRequests, trackingID)
	if m.PayoutStatusError != nil {
		return nil, m.PayoutStatusError
	}
	if m.PayoutStatusResponse == nil {
		// Still in flight at the provider unless a test says otherwise.
		return &gateway.StatusResponse{State: "Sending"}, nil
	}
	return m.PayoutStatusResponse, nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	held  map[string]bool
	sweep bool

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{held: make(map[string]bool)}
}

// HoldRecordLock pre-acquires a record lock so the next caller is refused.
func (m *MockLockStore) HoldRecordLock(recordID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[recordID] = true
}

func (m *MockLockStore) AcquireRecordLock(ctx context.Context, recordID string, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[recordID] {
		return false, nil
	}
	m.held[recordID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseRecordLock(ctx context.Context, recordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, recordID)
	return nil
}

func (m *MockLockStore) AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sweep {
		return false, nil
	}
	m.sweep = true
	return true, nil
}

func (m *MockLockStore) ReleaseSweepLock(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep = false
	return nil
}
