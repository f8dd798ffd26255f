package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/labsys/labstock/internal/adapters/export"
	"github.com/labsys/labstock/internal/adapters/httpserver"
	"github.com/labsys/labstock/internal/adapters/notify"
	"github.com/labsys/labstock/internal/adapters/repo/postgres"
	"github.com/labsys/labstock/internal/adapters/session"
	"github.com/labsys/labstock/internal/config"
	"github.com/labsys/labstock/internal/domain"
	"github.com/labsys/labstock/internal/usecase"
)

// MainStockName is the stock seeded at startup and used by the web layer
// when the operator does not pick another one.
const MainStockName = "main"

type App struct {
	DB        *gorm.DB
	Cfg       config.Config
	Store     *postgres.Store
	Users     *postgres.UserRepo
	CatalogUC *usecase.CatalogUC
	StockUC   *usecase.StockUC
	OrderUC   *usecase.OrderUC
	Exporter  *export.Exporter
	handler   http.Handler
}

func NewApp(db *gorm.DB, cfg config.Config) (*App, error) {
	store := postgres.NewStore(db)
	users := postgres.NewUserRepo(db)

	var carts domain.CartStore
	if cfg.RedisURL != "" {
		redisCarts, err := session.NewRedisCartStore(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		carts = redisCarts
	} else {
		log.Warn().Msg("REDIS_URL not set, carts are kept in process memory")
		carts = session.NewMemoryCartStore()
	}

	var notifier domain.LowStockNotifier
	if cfg.MailHost != "" {
		notifier = notify.NewMailer(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailSender, users)
	}

	a := &App{
		DB:        db,
		Cfg:       cfg,
		Store:     store,
		Users:     users,
		CatalogUC: &usecase.CatalogUC{Store: store},
		StockUC:   &usecase.StockUC{Store: store, Notifier: notifier},
		OrderUC:   &usecase.OrderUC{Store: store, Carts: carts},
		Exporter:  export.NewExporter(db),
	}
	a.handler = httpserver.New(httpserver.Deps{
		Catalog:   a.CatalogUC,
		Stock:     a.StockUC,
		Orders:    a.OrderUC,
		Users:     users,
		Ledger:    store.Ledger(),
		Exporter:  a.Exporter,
		JWTSecret: cfg.JWTSecret,
		MainStock: MainStockName,
	})
	return a, nil
}

func (a *App) HTTPHandler() http.Handler { return a.handler }

// MigrateAndSeed creates the schema and the rows the application cannot run
// without: the "main" stock, the three canonical roles, and the admin user
// when credentials are configured. All seeding is idempotent.
func (a *App) MigrateAndSeed() error {
	err := a.DB.AutoMigrate(
		&domain.Role{},
		&domain.User{},
		&domain.Product{},
		&domain.Specification{},
		&domain.Stock{},
		&domain.StockProduct{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Transaction{},
	)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := a.seedMainStock(ctx); err != nil {
		return err
	}
	if err := a.seedRoles(); err != nil {
		return err
	}
	return a.seedAdmin(ctx)
}

func (a *App) seedMainStock(ctx context.Context) error {
	_, err := a.Store.Ledger().FindStockByName(ctx, MainStockName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return a.DB.Create(&domain.Stock{ID: uuid.New(), Name: MainStockName}).Error
}

func (a *App) seedRoles() error {
	roles := []domain.Role{
		{Name: "User", Default: true, Permissions: domain.PermissionView},
		{Name: "Staff", Permissions: domain.PermissionView | domain.PermissionCreate |
			domain.PermissionEdit | domain.PermissionDelete},
		{Name: "Administrator", Permissions: 0xff},
	}
	for _, role := range roles {
		var existing domain.Role
		err := a.DB.Where("name = ?", role.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role.ID = uuid.New()
			if err := a.DB.Create(&role).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
		if err := a.DB.Model(&existing).Update("permissions", role.Permissions).Error; err != nil {
			return err
		}
	}
	return nil
}

func (a *App) seedAdmin(ctx context.Context) error {
	if a.Cfg.AdminEmail == "" || a.Cfg.AdminPassword == "" {
		log.Warn().Msg("admin credentials not configured, skipping admin seed")
		return nil
	}
	if _, err := a.Users.FindByEmail(ctx, a.Cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	var adminRole domain.Role
	if err := a.DB.Where("name = ?", "Administrator").First(&adminRole).Error; err != nil {
		return err
	}
	admin := &domain.User{
		ID:             uuid.New(),
		Email:          a.Cfg.AdminEmail,
		Confirmed:      true,
		StockMailAlert: true,
		RoleID:         &adminRole.ID,
	}
	if err := admin.SetPassword(a.Cfg.AdminPassword); err != nil {
		return err
	}
	return a.Users.Create(ctx, admin)
}
