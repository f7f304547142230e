package cmd

import (
	"time"

	"gorm.io/gorm"

	"repairshop/internal/adapters/out/postgres"
	"repairshop/internal/adapters/out/postgres/userrepo"
	"repairshop/internal/core/application/usecases/commands"
	"repairshop/internal/core/application/usecases/queries"
	"repairshop/internal/core/ports"
	"repairshop/internal/jobs"

	"go.uber.org/zap"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
	}
}

func (c *CompositionRoot) CreateCreateWorkOrderCommandHandler() commands.CreateWorkOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateWorkOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateTransitionWorkOrderCommandHandler() commands.TransitionWorkOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionWorkOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOpenWorkOrdersQueryHandler() queries.GetOpenWorkOrdersQueryHandler {
	return queries.NewGetOpenWorkOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetWorkOrderHistoryQueryHandler() queries.GetWorkOrderHistoryQueryHandler {
	return queries.NewGetWorkOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStaleWorkOrdersQueryHandler() queries.GetStaleWorkOrdersQueryHandler {
	return queries.NewGetStaleWorkOrdersQueryHandler(c.gormDB)
}

// CreateUserRepository builds the repository the authentication middleware
// resolves callers with. It reads on the main connection, outside any unit
// of work.
func (c *CompositionRoot) CreateUserRepository() ports.UserRepository {
	return userrepo.NewGormUserRepository(c.gormDB)
}

func (c *CompositionRoot) CreateStaleWorkOrderJob(staleAfter time.Duration, logger *zap.Logger) *jobs.StaleWorkOrderJob {
	return jobs.NewStaleWorkOrderJob(c.CreateGetStaleWorkOrdersQueryHandler(), staleAfter, logger)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
