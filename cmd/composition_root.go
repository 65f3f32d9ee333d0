package cmd

import (
	"strconv"
	"time"

	"warehouse/internal/adapters/out/postgres"
	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/application/usecases/queries"
	"warehouse/internal/core/domain/model/task"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	permissions task.Permissions
	lease       time.Duration
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	lease := task.DefaultLease
	if config.LeaseSeconds != "" {
		if seconds, err := strconv.Atoi(config.LeaseSeconds); err == nil && seconds > 0 {
			lease = time.Duration(seconds) * time.Second
		}
	}

	return CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		permissions: task.NewPermissions(),
		lease:       lease,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateRequestTransitionCommandHandler() commands.RequestTransitionCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestTransitionCommandHandler(f, c.permissions)
}

func (c *CompositionRoot) CreateExecuteTransitionCommandHandler() commands.ExecuteTransitionCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewExecuteTransitionCommandHandler(f)
}

func (c *CompositionRoot) CreateClaimTaskCommandHandler() commands.ClaimTaskCommandHandler {
	var f commands.TaskUoWFactory = FuncTaskUoWFactory(func() commands.TaskUoW {
		return c.uowFactory.Create()
	})
	return commands.NewClaimTaskCommandHandler(f, c.lease)
}

func (c *CompositionRoot) CreateCompleteTaskCommandHandler() commands.CompleteTaskCommandHandler {
	var f commands.TaskUoWFactory = FuncTaskUoWFactory(func() commands.TaskUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCompleteTaskCommandHandler(f)
}

func (c *CompositionRoot) CreateReleaseTaskCommandHandler() commands.ReleaseTaskCommandHandler {
	var f commands.TaskUoWFactory = FuncTaskUoWFactory(func() commands.TaskUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReleaseTaskCommandHandler(f)
}

func (c *CompositionRoot) CreateSweepExpiredClaimsCommandHandler() commands.SweepExpiredClaimsCommandHandler {
	var f commands.TaskUoWFactory = FuncTaskUoWFactory(func() commands.TaskUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSweepExpiredClaimsCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllOrdersQueryHandler() queries.GetAllOrdersQueryHandler {
	return queries.NewGetAllOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetQueueStatusQueryHandler() queries.GetQueueStatusQueryHandler {
	return queries.NewGetQueueStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAgentClaimQueryHandler() queries.GetAgentClaimQueryHandler {
	return queries.NewGetAgentClaimQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStateMachineQueryHandler() queries.GetStateMachineQueryHandler {
	return queries.NewGetStateMachineQueryHandler(c.permissions)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncTaskUoWFactory func() commands.TaskUoW

func (f FuncTaskUoWFactory) Create() commands.TaskUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
