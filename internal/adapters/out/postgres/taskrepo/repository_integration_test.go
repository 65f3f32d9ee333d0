package taskrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"warehouse/internal/adapters/out/postgres/taskrepo"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/core/domain/model/task"
	"warehouse/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TaskRepositoryIntegrationTestSuite provides integration tests for TaskRepository
// using PostgreSQL containers to verify queue and claim behavior.
type TaskRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *taskrepo.GormTaskRepository
}

func (suite *TaskRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&taskrepo.QueuedTaskDTO{}, &taskrepo.ClaimDTO{}))
}

func (suite *TaskRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE queued_tasks, task_claims").Error)

	suite.repository = taskrepo.NewGormTaskRepository(suite.db)
}

func (suite *TaskRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *TaskRepositoryIntegrationTestSuite) createTestTask(role task.Role, transition order.Transition) task.Task {
	testTask, err := task.NewTask(kernel.NewUUID(), kernel.NewUUID(), transition, role, "requester-1", "")
	suite.Require().NoError(err)
	return testTask
}

func (suite *TaskRepositoryIntegrationTestSuite) TestClaimNext_FIFOOrder() {
	ctx := context.Background()

	first := suite.createTestTask(task.Fulfillment, order.Confirm)
	second := suite.createTestTask(task.Fulfillment, order.Pick)
	third := suite.createTestTask(task.Fulfillment, order.Pack)
	for _, t := range []task.Task{first, second, third} {
		suite.Require().NoError(suite.repository.Enqueue(ctx, t))
	}

	for i, expected := range []task.Task{first, second, third} {
		claim, err := suite.repository.ClaimNext(ctx, task.Fulfillment, "agent-1", task.DefaultLease)
		suite.Require().NoError(err)
		suite.Require().NotNil(claim, "pop %d must return a task", i)
		suite.Equal(expected.ID().String(), claim.Task().ID().String())
		suite.Equal(expected.Transition(), claim.Task().Transition())

		suite.Require().NoError(suite.repository.DeleteClaim(ctx, "agent-1"))
	}

	claim, err := suite.repository.ClaimNext(ctx, task.Fulfillment, "agent-1", task.DefaultLease)
	suite.Require().NoError(err)
	suite.Nil(claim)
}

func (suite *TaskRepositoryIntegrationTestSuite) TestClaimNext_EmptyQueue() {
	ctx := context.Background()

	claim, err := suite.repository.ClaimNext(ctx, task.Customer, "agent-1", task.DefaultLease)
	suite.Require().NoError(err)
	suite.Nil(claim)
}

func (suite *TaskRepositoryIntegrationTestSuite) TestClaimNext_RoleQueuesAreSeparate() {
	ctx := context.Background()

	fulfillmentTask := suite.createTestTask(task.Fulfillment, order.Confirm)
	suite.Require().NoError(suite.repository.Enqueue(ctx, fulfillmentTask))

	claim, err := suite.repository.ClaimNext(ctx, task.Customer, "agent-1", task.DefaultLease)
	suite.Require().NoError(err)
	suite.Nil(claim)

	claim, err = suite.repository.ClaimNext(ctx, task.Fulfillment, "agent-1", task.DefaultLease)
	suite.Require().NoError(err)
	suite.Require().NotNil(claim)
	suite.Equal(fulfillmentTask.ID().String(), claim.Task().ID().String())
}

func (suite *TaskRepositoryIntegrationTestSuite) TestClaimNext_ConcurrentAgentsExactlyOnce() {
	ctx := context.Background()

	const tasks = 5
	const agents = 20

	for range tasks {
		suite.Require().NoError(suite.repository.Enqueue(ctx, suite.createTestTask(task.Fulfillment, order.Confirm)))
	}

	var wg sync.WaitGroup
	claimedIDs := make(chan string, agents)

	for range agents {
		wg.Add(1)
		go func() {
			defer wg.Done()

			claim, err := suite.repository.ClaimNext(ctx, task.Fulfillment, kernel.NewUUID().String(), task.DefaultLease)
			if err != nil {
				suite.T().Error(err)
				return
			}
			if claim != nil {
				claimedIDs <- claim.Task().ID().String()
			}
		}()
	}

	wg.Wait()
	close(claimedIDs)

	seen := make(map[string]bool)
	for id := range claimedIDs {
		suite.False(seen[id], "task %s was claimed twice", id)
		seen[id] = true
	}
	suite.Len(seen, tasks, "every task must be claimed exactly once")

	count, err := suite.repository.CountQueued(ctx, task.Fulfillment)
	suite.Require().NoError(err)
	suite.EqualValues(0, count)
}

func (suite *TaskRepositoryIntegrationTestSuite) TestGetClaim_LiveClaim() {
	ctx := context.Background()

	testTask := suite.createTestTask(task.Customer, order.CancelPending)
	suite.Require().NoError(suite.repository.Enqueue(ctx, testTask))

	claimed, err := suite.repository.ClaimNext(ctx, task.Customer, "agent-1", task.DefaultLease)
	suite.Require().NoError(err)
	suite.Require().NotNil(claimed)

	retrieved, err := suite.repository.GetClaim(ctx, "agent-1")
	suite.Require().NoError(err)
	suite.Equal("agent-1", retrieved.AgentID())
	suite.Equal(testTask.ID().String(), retrieved.Task().ID().String())
	suite.Equal(order.CancelPending, retrieved.Task().Transition())
	suite.Equal(task.Customer, retrieved.Task().Role())
}

func (suite *TaskRepositoryIntegrationTestSuite) TestGetClaim_ExpiredClaimIsAbsent() {
	ctx := context.Background()

	testTask := suite.createTestTask(task.Fulfillment, order.Confirm)
	suite.Require().NoError(suite.repository.Enqueue(ctx, testTask))

	claimed, err := suite.repository.ClaimNext(ctx, task.Fulfillment, "agent-1", -time.Second)
	suite.Require().NoError(err)
	suite.Require().NotNil(claimed)

	_, err = suite.repository.GetClaim(ctx, "agent-1")
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *TaskRepositoryIntegrationTestSuite) TestGetClaim_NoClaim() {
	ctx := context.Background()

	_, err := suite.repository.GetClaim(ctx, "agent-without-claim")
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *TaskRepositoryIntegrationTestSuite) TestClaimNext_OverwritesExpiredClaimBySameAgent() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.Enqueue(ctx, suite.createTestTask(task.Fulfillment, order.Confirm)))
	suite.Require().NoError(suite.repository.Enqueue(ctx, suite.createTestTask(task.Fulfillment, order.Pick)))

	_, err := suite.repository.ClaimNext(ctx, task.Fulfillment, "agent-1", -time.Second)
	suite.Require().NoError(err)

	claim, err := suite.repository.ClaimNext(ctx, task.Fulfillment, "agent-1", task.DefaultLease)
	suite.Require().NoError(err)
	suite.Require().NotNil(claim)
	suite.Equal(order.Pick, claim.Task().Transition())

	retrieved, err := suite.repository.GetClaim(ctx, "agent-1")
	suite.Require().NoError(err)
	suite.Equal(order.Pick, retrieved.Task().Transition())
}

func (suite *TaskRepositoryIntegrationTestSuite) TestClaimNext_ReplacesLiveClaimBySameAgent() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.Enqueue(ctx, suite.createTestTask(task.Fulfillment, order.Confirm)))
	suite.Require().NoError(suite.repository.Enqueue(ctx, suite.createTestTask(task.Fulfillment, order.Pick)))

	first, err := suite.repository.ClaimNext(ctx, task.Fulfillment, "agent-1", task.DefaultLease)
	suite.Require().NoError(err)
	suite.Require().NotNil(first)

	// Claiming again while the first lease is still live replaces the claim;
	// the first task is discarded rather than requeued.
	second, err := suite.repository.ClaimNext(ctx, task.Fulfillment, "agent-1", task.DefaultLease)
	suite.Require().NoError(err)
	suite.Require().NotNil(second)
	suite.Equal(order.Pick, second.Task().Transition())

	retrieved, err := suite.repository.GetClaim(ctx, "agent-1")
	suite.Require().NoError(err)
	suite.Equal(second.Task().ID().String(), retrieved.Task().ID().String())

	count, err := suite.repository.CountQueued(ctx, task.Fulfillment)
	suite.Require().NoError(err)
	suite.EqualValues(0, count, "the replaced task is not returned to the queue")
}

func (suite *TaskRepositoryIntegrationTestSuite) TestReleaseViaEnqueue_GoesToTail() {
	ctx := context.Background()

	released := suite.createTestTask(task.Fulfillment, order.Confirm)
	waiting := suite.createTestTask(task.Fulfillment, order.Pick)
	suite.Require().NoError(suite.repository.Enqueue(ctx, released))
	suite.Require().NoError(suite.repository.Enqueue(ctx, waiting))

	claim, err := suite.repository.ClaimNext(ctx, task.Fulfillment, "agent-1", task.DefaultLease)
	suite.Require().NoError(err)
	suite.Require().NotNil(claim)
	suite.Equal(released.ID().String(), claim.Task().ID().String())

	// Releasing re-enqueues behind everything already waiting.
	suite.Require().NoError(suite.repository.DeleteClaim(ctx, "agent-1"))
	suite.Require().NoError(suite.repository.Enqueue(ctx, claim.Task()))

	next, err := suite.repository.ClaimNext(ctx, task.Fulfillment, "agent-2", task.DefaultLease)
	suite.Require().NoError(err)
	suite.Require().NotNil(next)
	suite.Equal(waiting.ID().String(), next.Task().ID().String())

	last, err := suite.repository.ClaimNext(ctx, task.Fulfillment, "agent-3", task.DefaultLease)
	suite.Require().NoError(err)
	suite.Require().NotNil(last)
	suite.Equal(released.ID().String(), last.Task().ID().String())
}

func (suite *TaskRepositoryIntegrationTestSuite) TestCountQueued_PerRole() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.Enqueue(ctx, suite.createTestTask(task.Fulfillment, order.Confirm)))
	suite.Require().NoError(suite.repository.Enqueue(ctx, suite.createTestTask(task.Fulfillment, order.Pick)))
	suite.Require().NoError(suite.repository.Enqueue(ctx, suite.createTestTask(task.Customer, order.CancelPending)))

	fulfillmentCount, err := suite.repository.CountQueued(ctx, task.Fulfillment)
	suite.Require().NoError(err)
	suite.EqualValues(2, fulfillmentCount)

	customerCount, err := suite.repository.CountQueued(ctx, task.Customer)
	suite.Require().NoError(err)
	suite.EqualValues(1, customerCount)
}

func (suite *TaskRepositoryIntegrationTestSuite) TestCountClaimed_IgnoresExpired() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.Enqueue(ctx, suite.createTestTask(task.Fulfillment, order.Confirm)))
	suite.Require().NoError(suite.repository.Enqueue(ctx, suite.createTestTask(task.Fulfillment, order.Pick)))

	_, err := suite.repository.ClaimNext(ctx, task.Fulfillment, "agent-live", task.DefaultLease)
	suite.Require().NoError(err)
	_, err = suite.repository.ClaimNext(ctx, task.Fulfillment, "agent-expired", -time.Second)
	suite.Require().NoError(err)

	count, err := suite.repository.CountClaimed(ctx)
	suite.Require().NoError(err)
	suite.EqualValues(1, count)
}

func (suite *TaskRepositoryIntegrationTestSuite) TestDeleteExpiredClaims_RemovesWithoutRequeue() {
	ctx := context.Background()

	suite.Require().NoError(suite.repository.Enqueue(ctx, suite.createTestTask(task.Fulfillment, order.Confirm)))
	suite.Require().NoError(suite.repository.Enqueue(ctx, suite.createTestTask(task.Fulfillment, order.Pick)))

	_, err := suite.repository.ClaimNext(ctx, task.Fulfillment, "agent-expired", -time.Second)
	suite.Require().NoError(err)
	_, err = suite.repository.ClaimNext(ctx, task.Fulfillment, "agent-live", task.DefaultLease)
	suite.Require().NoError(err)

	swept, err := suite.repository.DeleteExpiredClaims(ctx, time.Now().UTC())
	suite.Require().NoError(err)
	suite.EqualValues(1, swept)

	// The expired task is gone with its claim, not returned to the queue.
	count, err := suite.repository.CountQueued(ctx, task.Fulfillment)
	suite.Require().NoError(err)
	suite.EqualValues(0, count)

	_, err = suite.repository.GetClaim(ctx, "agent-live")
	suite.Require().NoError(err)
}

func TestTaskRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(TaskRepositoryIntegrationTestSuite))
}
