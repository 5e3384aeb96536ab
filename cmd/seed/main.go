// Package main provides a CLI tool for seeding the database with demo data:
// a small catalog of bike parts and services plus opening stock.
package main

import (
	"context"
	"fmt"
	"os"

	"bikeshop/internal/core/types"
	"bikeshop/internal/domain/catalog"
	"bikeshop/internal/domain/stock"
	"bikeshop/internal/infrastructure/storage/postgres"
	"bikeshop/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txm := postgres.NewTxManager(pool)
	productRepo := postgres.NewProductRepo(txm)
	warehouseRepo := postgres.NewWarehouseRepo(txm)
	clientRepo := postgres.NewClientRepo(txm)
	stockService := stock.NewService(postgres.NewStockRepo(txm), txm)

	// --- Warehouses ---
	mainStore := catalog.NewWarehouse("Main Store", "Front of house")
	workshop := catalog.NewWarehouse("Workshop", "Service area")
	for _, w := range []*catalog.Warehouse{mainStore, workshop} {
		if err := warehouseRepo.Create(ctx, w); err != nil {
			log.Fatalw("failed to seed warehouse", "name", w.Name, "error", err)
		}
		log.Infow("warehouse created", "id", w.ID, "name", w.Name)
	}

	// --- Products ---
	type seedProduct struct {
		code, name       string
		salePrice, cost  string
		isService        bool
		openingMain      int64
		openingWorkshop  int64
	}

	seedProducts := []seedProduct{
		{"TIRE-26", "Tire 26\"", "120.00", "70.00", false, 40, 10},
		{"TUBE-26", "Inner Tube 26\"", "25.00", "12.00", false, 100, 30},
		{"CHAIN-9S", "Chain 9-speed", "95.50", "55.00", false, 25, 5},
		{"BRAKE-PAD", "Brake Pad Set", "45.00", "22.00", false, 60, 20},
		{"CABLE-KIT", "Cable Kit", "30.00", "14.00", false, 50, 15},
		{"SVC-TUNEUP", "Full Tune-up", "150.00", "0.00", true, 0, 0},
		{"SVC-FLAT", "Flat Repair", "35.00", "0.00", true, 0, 0},
	}

	for _, sp := range seedProducts {
		p := catalog.NewProduct(sp.code, sp.name, types.MustMoney(sp.salePrice), types.MustMoney(sp.cost))
		p.IsService = sp.isService
		if err := p.Validate(ctx); err != nil {
			log.Fatalw("invalid seed product", "code", sp.code, "error", err)
		}
		if err := productRepo.Create(ctx, p); err != nil {
			log.Fatalw("failed to seed product", "code", sp.code, "error", err)
		}
		log.Infow("product created", "id", p.ID, "code", p.Code)

		// Opening stock goes through the service so the ledger stays the
		// source of truth from day one.
		if sp.openingMain > 0 {
			if _, err := stockService.AddStock(ctx, p.ID, mainStore.ID, sp.openingMain, stock.ManualOrigin(), "opening stock"); err != nil {
				log.Fatalw("failed to seed opening stock", "code", sp.code, "error", err)
			}
		}
		if sp.openingWorkshop > 0 {
			if _, err := stockService.AddStock(ctx, p.ID, workshop.ID, sp.openingWorkshop, stock.ManualOrigin(), "opening stock"); err != nil {
				log.Fatalw("failed to seed opening stock", "code", sp.code, "error", err)
			}
		}
	}

	// --- Clients ---
	for _, c := range []*catalog.Client{
		catalog.NewClient("Walk-in Customer", ""),
		catalog.NewClient("Maria Souza", "maria@example.com"),
		catalog.NewClient("João Pereira", "joao@example.com"),
	} {
		if err := clientRepo.Create(ctx, c); err != nil {
			log.Fatalw("failed to seed client", "name", c.Name, "error", err)
		}
		log.Infow("client created", "id", c.ID, "name", c.Name)
	}

	log.Info("seeding completed successfully")
}
