package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/AbdiasMQ/Practico-final/internal/application/auth"
	"github.com/AbdiasMQ/Practico-final/internal/application/inventory"
	"github.com/AbdiasMQ/Practico-final/internal/application/sales"
	"github.com/AbdiasMQ/Practico-final/internal/application/usecase"
	infrapdf "github.com/AbdiasMQ/Practico-final/internal/infrastructure/pdf"
	"github.com/AbdiasMQ/Practico-final/internal/infrastructure/postgres"
	httpRouter "github.com/AbdiasMQ/Practico-final/internal/interfaces/http"
	"github.com/AbdiasMQ/Practico-final/pkg/config"
	"github.com/AbdiasMQ/Practico-final/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockLedgerUC := inventory.NewStockLedgerUseCase(txRunner, productRepo, movementRepo, nil)
	productUC := usecase.NewProductUseCase(txRunner, txRunner, productRepo, nil)
	customerUC := usecase.NewCustomerUseCase(customerRepo, nil)
	saleUC := sales.NewSaleUseCase(txRunner, customerRepo, saleRepo, nil)

	pdfGenerator := infrapdf.NewMarotoSalePDFGenerator()
	salePDFUC := sales.NewSalePDFUseCase(saleRepo, customerRepo, productRepo, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   productUC,
		StockLedger: stockLedgerUC,
		CustomerUC:  customerUC,
		SaleUC:      saleUC,
		SalePDFUC:   salePDFUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
