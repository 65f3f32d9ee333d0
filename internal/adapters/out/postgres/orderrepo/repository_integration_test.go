package orderrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"warehouse/internal/adapters/out/postgres/orderrepo"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	testOrder, err := order.NewOrder(kernel.NewUUID(), "Alice", []string{"widget", "gadget"}, "leave at door")
	suite.Require().NoError(err)
	return testOrder
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID().String(), restored.ID().String())
	suite.Equal("Alice", restored.CustomerName())
	suite.Equal([]string{"widget", "gadget"}, restored.Items())
	suite.Equal("leave at door", restored.Notes())
	suite.Equal(order.Pending, restored.State())
	suite.EqualValues(1, restored.Version())
	suite.Len(restored.History(), 1)
	suite.Equal(order.Pending, restored.History()[0].State())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	ctx := context.Background()

	_, err := suite.repository.Get(ctx, kernel.NewUUID())
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateWithVersion_BumpsVersion() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.ApplyTransition(order.Confirm, ""))
	suite.Require().NoError(suite.repository.UpdateWithVersion(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, restored.State())
	suite.EqualValues(2, restored.Version())
	suite.Len(restored.History(), 2)
	suite.Equal("Transitioned to confirmed", restored.History()[1].Notes())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateWithVersion_StaleVersionConflicts() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// Two snapshots of the same order at version 1.
	first, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.ApplyTransition(order.Confirm, ""))
	suite.Require().NoError(suite.repository.UpdateWithVersion(ctx, first))

	suite.Require().NoError(second.ApplyTransition(order.HaltPending, ""))
	err = suite.repository.UpdateWithVersion(ctx, second)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrConcurrencyConflict)

	// The winner's transition is the only one recorded.
	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, restored.State())
	suite.EqualValues(2, restored.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateWithVersion_MissingOrderNotFound() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	err := suite.repository.UpdateWithVersion(ctx, testOrder)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateWithVersion_ConcurrentWritersOneWins() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// Every writer starts from the same version-1 snapshot.
	const writers = 8
	snapshots := make([]*order.Order, writers)
	for i := range snapshots {
		snapshot, err := suite.repository.Get(ctx, testOrder.ID())
		suite.Require().NoError(err)
		suite.Require().NoError(snapshot.ApplyTransition(order.Confirm, ""))
		snapshots[i] = snapshot
	}

	var wg sync.WaitGroup
	results := make(chan error, writers)

	for _, snapshot := range snapshots {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- suite.repository.UpdateWithVersion(ctx, snapshot)
		}()
	}

	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		default:
			suite.Require().ErrorIs(err, errs.ErrConcurrencyConflict)
			conflicts++
		}
	}

	suite.Equal(1, wins, "exactly one writer must win")
	suite.Equal(writers-1, conflicts)

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, restored.State())
	suite.EqualValues(2, restored.Version())
	suite.Len(restored.History(), 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAll_NewestFirstWithLimit() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	for range 5 {
		suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrder()))
		time.Sleep(5 * time.Millisecond)
	}

	all, err := suite.repository.GetAll(ctx, 0)
	suite.Require().NoError(err)
	suite.Len(all, 5)

	limited, err := suite.repository.GetAll(ctx, 3)
	suite.Require().NoError(err)
	suite.Len(limited, 3)

	for i := 1; i < len(limited); i++ {
		suite.False(limited[i-1].CreatedAt().Before(limited[i].CreatedAt()))
	}
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
