package services_test

import (
	"context"
	"time"

	"github.com/benmed00/lucid-web-craftsman-sub003/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ---- mock order repository ----

type mockOrderRepo struct {
	findByIDOrder *models.Order
	findByIDErr   error
	// findByIDLater replaces findByIDOrder after the first call, for races
	// where a concurrent writer changed the row between read and write.
	findByIDLater *models.Order
	findByIDCalls int

	findByTrackingOrder *models.Order
	findByTrackingErr   error

	updateRows    int64
	updateErr     error
	updateCalls   int
	updateUpdates map[string]interface{}

	markPaidRows    int64
	markPaidErr     error
	markPaidCalls   int
	markPaidUpdates map[string]interface{}

	counterCalls             int
	counterRequiresAttention bool
	counterErr               error
}

func (m *mockOrderRepo) Create(_ context.Context, _ *models.Order) error { return nil }

func (m *mockOrderRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Order, error) {
	m.findByIDCalls++
	if m.findByIDCalls > 1 && m.findByIDLater != nil {
		return m.findByIDLater, nil
	}
	return m.findByIDOrder, m.findByIDErr
}

func (m *mockOrderRepo) FindByIDAndUserID(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
	return m.findByIDOrder, m.findByIDErr
}

func (m *mockOrderRepo) FindByTrackingNumber(_ context.Context, _ string) (*models.Order, error) {
	return m.findByTrackingOrder, m.findByTrackingErr
}

func (m *mockOrderRepo) UpdateStatusIfCurrent(_ context.Context, _ uuid.UUID, _ string, updates map[string]interface{}) (int64, error) {
	m.updateCalls++
	m.updateUpdates = updates
	return m.updateRows, m.updateErr
}

func (m *mockOrderRepo) MarkPaidIfPending(_ context.Context, _ uuid.UUID, updates map[string]interface{}) (int64, error) {
	m.markPaidCalls++
	m.markPaidUpdates = updates
	return m.markPaidRows, m.markPaidErr
}

func (m *mockOrderRepo) IncrementAnomalyCounters(_ context.Context, _ uuid.UUID, requiresAttention bool, _ string) error {
	m.counterCalls++
	m.counterRequiresAttention = requiresAttention
	return m.counterErr
}

func gormNotFound() error { return gorm.ErrRecordNotFound }

// ---- mock transition repository ----

type mockTransitionRepo struct {
	transition *models.OrderStateTransition
	findErr    error
	list       []models.OrderStateTransition
	listErr    error
}

func (m *mockTransitionRepo) Find(_ context.Context, _, _ string) (*models.OrderStateTransition, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.transition == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.transition, nil
}

func (m *mockTransitionRepo) ListFrom(_ context.Context, _ string) ([]models.OrderStateTransition, error) {
	return m.list, m.listErr
}

// ---- mock history repository ----

type mockHistoryRepo struct {
	createErr   error
	createCalls int
	entries     []*models.OrderStatusHistory
	list        []models.OrderStatusHistory
	listErr     error
}

func (m *mockHistoryRepo) Create(_ context.Context, entry *models.OrderStatusHistory) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	entry.ID = uuid.New()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockHistoryRepo) ListByOrderID(_ context.Context, _ uuid.UUID) ([]models.OrderStatusHistory, error) {
	return m.list, m.listErr
}

// ---- mock anomaly repository ----

type mockAnomalyRepo struct {
	createErr   error
	createCalls int
	created     []*models.OrderAnomaly

	findByIDAnomaly *models.OrderAnomaly
	findByIDErr     error

	list    []models.OrderAnomaly
	listErr error

	resolveRows  int64
	resolveErr   error
	resolveCalls int

	retryErr   error
	retryCalls int
}

func (m *mockAnomalyRepo) Create(_ context.Context, anomaly *models.OrderAnomaly) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	anomaly.ID = uuid.New()
	m.created = append(m.created, anomaly)
	return nil
}

func (m *mockAnomalyRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.OrderAnomaly, error) {
	return m.findByIDAnomaly, m.findByIDErr
}

func (m *mockAnomalyRepo) ListByOrderID(_ context.Context, _ uuid.UUID) ([]models.OrderAnomaly, error) {
	return m.list, m.listErr
}

func (m *mockAnomalyRepo) Resolve(_ context.Context, _ uuid.UUID, _ uuid.UUID, _, _ string) (int64, error) {
	m.resolveCalls++
	return m.resolveRows, m.resolveErr
}

func (m *mockAnomalyRepo) IncrementRetry(_ context.Context, _ uuid.UUID, _ *time.Time) error {
	m.retryCalls++
	return m.retryErr
}

// ---- mock notifier ----

type publishedEvent struct {
	key   string
	event interface{}
}

type mockNotifier struct {
	published []publishedEvent
}

func (m *mockNotifier) Publish(_ context.Context, key string, event interface{}) {
	m.published = append(m.published, publishedEvent{key: key, event: event})
}
