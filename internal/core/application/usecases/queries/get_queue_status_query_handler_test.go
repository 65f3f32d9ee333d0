package queries_test

import (
	"context"
	"testing"
	"time"

	"warehouse/internal/adapters/out/postgres/taskrepo"
	"warehouse/internal/core/application/usecases/queries"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/core/domain/model/task"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetQueueStatusQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetQueueStatusQueryHandler
	taskRepo  *taskrepo.GormTaskRepository
}

func (suite *GetQueueStatusQueryHandlerTestSuite) SetupSuite() {
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

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&taskrepo.QueuedTaskDTO{}, &taskrepo.ClaimDTO{})
	suite.Require().NoError(err)

	suite.handler = queries.NewGetQueueStatusQueryHandler(db)
	suite.taskRepo = taskrepo.NewGormTaskRepository(db)
}

func (suite *GetQueueStatusQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetQueueStatusQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE queued_tasks, task_claims").Error
	suite.Require().NoError(err)
}

func (suite *GetQueueStatusQueryHandlerTestSuite) enqueueTask(role task.Role, transition order.Transition) {
	testTask, err := task.NewTask(kernel.NewUUID(), kernel.NewUUID(), transition, role, "requester-1", "")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.taskRepo.Enqueue(context.Background(), testTask))
}

func (suite *GetQueueStatusQueryHandlerTestSuite) TestHandle_EmptyQueues_ReturnsZeroForEveryRole() {
	query := queries.NewGetQueueStatusQuery()

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Len(result.QueuedByRole, len(task.AllRoles()))
	for _, role := range task.AllRoles() {
		suite.EqualValues(0, result.QueuedByRole[role])
	}
	suite.EqualValues(0, result.TotalQueued)
	suite.EqualValues(0, result.TotalProcessing)
	suite.EqualValues(0, result.TotalTasks)
}

func (suite *GetQueueStatusQueryHandlerTestSuite) TestHandle_CountsQueuedTasksPerRole() {
	suite.enqueueTask(task.Fulfillment, order.Confirm)
	suite.enqueueTask(task.Fulfillment, order.Pick)
	suite.enqueueTask(task.Customer, order.CancelPending)

	query := queries.NewGetQueueStatusQuery()

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.EqualValues(2, result.QueuedByRole[task.Fulfillment])
	suite.EqualValues(1, result.QueuedByRole[task.Customer])
	suite.EqualValues(3, result.TotalQueued)
	suite.EqualValues(0, result.TotalProcessing)
	suite.EqualValues(3, result.TotalTasks)
}

func (suite *GetQueueStatusQueryHandlerTestSuite) TestHandle_CountsLiveClaimsAsProcessing() {
	ctx := context.Background()

	suite.enqueueTask(task.Fulfillment, order.Confirm)
	suite.enqueueTask(task.Fulfillment, order.Pick)

	claim, err := suite.taskRepo.ClaimNext(ctx, task.Fulfillment, "agent-1", task.DefaultLease)
	suite.Require().NoError(err)
	suite.Require().NotNil(claim)

	query := queries.NewGetQueueStatusQuery()

	result, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.EqualValues(1, result.QueuedByRole[task.Fulfillment])
	suite.EqualValues(1, result.TotalQueued)
	suite.EqualValues(1, result.TotalProcessing)
	suite.EqualValues(2, result.TotalTasks)
}

func (suite *GetQueueStatusQueryHandlerTestSuite) TestHandle_ExpiredClaimsAreNotProcessing() {
	ctx := context.Background()

	suite.enqueueTask(task.Fulfillment, order.Confirm)

	claim, err := suite.taskRepo.ClaimNext(ctx, task.Fulfillment, "agent-1", -time.Second)
	suite.Require().NoError(err)
	suite.Require().NotNil(claim)

	query := queries.NewGetQueueStatusQuery()

	result, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.EqualValues(0, result.TotalQueued)
	suite.EqualValues(0, result.TotalProcessing)
	suite.EqualValues(0, result.TotalTasks)
}

func (suite *GetQueueStatusQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.GetQueueStatusQuery{}

	_, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "must be created via NewGetQueueStatusQuery constructor")
}

func TestGetQueueStatusQueryHandlerTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(GetQueueStatusQueryHandlerTestSuite))
}
