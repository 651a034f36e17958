// Package app wires repositories, services and handlers over one database.
package app

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/auth"
	"github.com/frahmantamala/gearguard/internal/core/events"
	"github.com/frahmantamala/gearguard/internal/department"
	departmentPostgres "github.com/frahmantamala/gearguard/internal/department/postgres"
	"github.com/frahmantamala/gearguard/internal/equipment"
	equipmentPostgres "github.com/frahmantamala/gearguard/internal/equipment/postgres"
	"github.com/frahmantamala/gearguard/internal/maintenance"
	maintenancePostgres "github.com/frahmantamala/gearguard/internal/maintenance/postgres"
	"github.com/frahmantamala/gearguard/internal/observability"
	"github.com/frahmantamala/gearguard/internal/report"
	reportPostgres "github.com/frahmantamala/gearguard/internal/report/postgres"
	"github.com/frahmantamala/gearguard/internal/store"
	"github.com/frahmantamala/gearguard/internal/team"
	teamPostgres "github.com/frahmantamala/gearguard/internal/team/postgres"
	"github.com/frahmantamala/gearguard/internal/transport"
	"github.com/frahmantamala/gearguard/internal/transport/rest"
	"github.com/frahmantamala/gearguard/internal/user"
	userPostgres "github.com/frahmantamala/gearguard/internal/user/postgres"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type Container struct {
	Config  *internal.Config
	DB      *gorm.DB
	SQL     *sqlx.DB
	Bus     *events.EventBus
	Metrics *observability.Metrics
	Logger  *slog.Logger

	Auth        *auth.Service
	Users       *user.Service
	Departments *department.Service
	Teams       *team.Service
	Equipment   *equipment.Service
	Requests    *maintenance.Service
	Reports     *report.Service
}

// sqlxDriver maps the configured driver onto the name sqlx uses to pick
// its bind variable style.
func sqlxDriver(driver string) string {
	if driver == "sqlite" {
		return "sqlite3"
	}
	return "pgx"
}

func New(cfg *internal.Config, db *gorm.DB, logger *slog.Logger) (*Container, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}

	bus := events.NewEventBus(logger)
	var metrics *observability.Metrics
	if cfg.Observability.Metrics.Enabled {
		metrics = observability.NewMetrics()
		metrics.Subscribe(bus)
	}

	tx := store.NewTxManager(db)

	userRepo := userPostgres.NewUserRepository(db)
	departmentRepo := departmentPostgres.NewDepartmentRepository(db)
	teamRepo := teamPostgres.NewTeamRepository(db)
	equipmentRepo := equipmentPostgres.NewEquipmentRepository(db)
	requestRepo := maintenancePostgres.NewRequestRepository(db)

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)

	lifecycle := maintenance.NewLifecycle(requestRepo, equipmentRepo, tx, bus, cfg.Lifecycle.Policy(), logger)
	sqlxDB := sqlx.NewDb(sqlDB, sqlxDriver(cfg.Database.Driver))

	return &Container{
		Config:  cfg,
		DB:      db,
		SQL:     sqlxDB,
		Bus:     bus,
		Metrics: metrics,
		Logger:  logger,

		Auth:        auth.NewService(userRepo, tokens, logger),
		Users:       user.NewService(userRepo, cfg.Security.BCryptCost, logger),
		Departments: department.NewService(departmentRepo, equipmentRepo, logger),
		Teams:       team.NewService(teamRepo, userRepo, equipmentRepo, tx, logger),
		Equipment:   equipment.NewService(equipmentRepo, departmentRepo, teamRepo, userRepo, requestRepo, logger),
		Requests: maintenance.NewService(requestRepo, lifecycle, maintenance.NewResolver(equipmentRepo),
			equipmentRepo, teamRepo, userRepo, tx, bus, logger),
		Reports: report.NewService(reportPostgres.NewReportRepository(sqlxDB), logger),
	}, nil
}

// Handlers builds the HTTP layer. openAPIFile may be empty to skip the docs routes.
func (c *Container) Handlers(openAPIFile string) rest.Handlers {
	base := transport.NewBaseHandler(c.Logger)
	h := rest.Handlers{
		Health:      rest.NewHealthHandler(c.SQL.DB, c.Config.Database.DriverName()),
		Auth:        auth.NewHandler(base, c.Auth),
		Roles:       auth.NewRoleAuthorization(base),
		User:        user.NewHandler(base, c.Users),
		Department:  department.NewHandler(base, c.Departments),
		Team:        team.NewHandler(base, c.Teams),
		Equipment:   equipment.NewHandler(base, c.Equipment),
		Maintenance: maintenance.NewHandler(base, c.Requests),
		Report:      report.NewHandler(base, c.Reports),
		OpenAPIFile: openAPIFile,
	}
	if c.Metrics != nil {
		h.Metrics = c.Metrics
		h.MetricsPath = c.Config.Observability.Metrics.Path
	}
	return h
}
