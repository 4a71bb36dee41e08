package app

import (
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/vitrina/internal/adapters/httpserver"
	"github.com/phenrril/vitrina/internal/adapters/repo/postgres"
	"github.com/phenrril/vitrina/internal/domain"
	"github.com/phenrril/vitrina/internal/usecase"
)

type App struct {
	DB        *gorm.DB
	CatalogUC *usecase.CatalogUC
	CartUC    *usecase.CartUC
	OrderUC   *usecase.OrderUC
}

func NewApp(db *gorm.DB) (*App, error) {
	prodRepo := postgres.NewProductRepo(db)
	catRepo := postgres.NewCategoryRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	custRepo := postgres.NewCustomerRepo(db)

	a := &App{DB: db}
	a.CatalogUC = &usecase.CatalogUC{Products: prodRepo, Categories: catRepo}
	a.CartUC = &usecase.CartUC{Products: prodRepo}
	a.OrderUC = &usecase.OrderUC{Orders: orderRepo, Products: prodRepo, Customers: custRepo}
	return a, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.CatalogUC, a.CartUC, a.OrderUC)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.Category{}, &domain.Product{}, &domain.Order{}, &domain.OrderItem{}, &domain.Customer{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_products_category_ids_gin ON products USING gin (category_ids)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_categories_parent_id ON categories (parent_id)").Error

	var count int64
	if err := a.DB.Model(&domain.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		seedCatalog(a.DB)
	}
	return nil
}

func seedCatalog(db *gorm.DB) {
	phones := domain.Category{ID: uuid.New(), Name: "Phones", Slug: "phones"}
	accessories := domain.Category{ID: uuid.New(), Name: "Accessories", Slug: "accessories"}
	cases := domain.Category{ID: uuid.New(), Name: "Cases", Slug: "cases", ParentID: &accessories.ID}
	chargers := domain.Category{ID: uuid.New(), Name: "Chargers", Slug: "chargers", ParentID: &accessories.ID}
	for _, c := range []domain.Category{phones, accessories, cases, chargers} {
		db.Create(&c)
	}

	ten := 10
	prods := []domain.Product{
		{ID: uuid.New(), Slug: "aurora-x1", Name: "Aurora X1", Price: 499.99, CategoryIDs: []uuid.UUID{phones.ID}},
		{ID: uuid.New(), Slug: "aurora-x1-case", Name: "Aurora X1 Case", Price: 19.9, StockQuantity: &ten, EnableStockManagement: true, CategoryIDs: []uuid.UUID{cases.ID}},
		{ID: uuid.New(), Slug: "fast-charger-30w", Name: "Fast Charger 30W", Price: 24.5, CategoryIDs: []uuid.UUID{chargers.ID}},
	}
	for _, p := range prods {
		db.Create(&p)
	}
}
