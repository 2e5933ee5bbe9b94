package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/usecase"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/stock-ledger-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	policy, err := inventory.ParseCreditPolicy(cfg.Inventory.StockCreditPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("STOCK_CREDIT_POLICY")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer st.close()

	// Avisos externos de alertas
	var senders []notify.Sender
	if cfg.Notify.Enabled("log") {
		senders = append(senders, notify.NewLogSender(log.Component("alert-notice")))
	}
	if cfg.Notify.Enabled("email") {
		senders = append(senders, notify.NewEmailSender(
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From, cfg.SMTP.To,
		))
	}
	var kafkaSender *notify.KafkaSender
	if cfg.Notify.Enabled("kafka") {
		kafkaSender = notify.NewKafkaSender(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		senders = append(senders, kafkaSender)
	}
	dispatcher := notify.NewDispatcher(notify.Options{
		Buffer:  cfg.Notify.Buffer,
		Workers: cfg.Notify.Workers,
	}, log.Zerolog(), senders...)

	ledger := inventory.NewStockLedger(log.Component("ledger"))
	valuation := inventory.NewValuation()
	alertEngine := inventory.NewAlertEngine(st.products, st.alerts, dispatcher, log.Component("alerts"))

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	orderUC := inventory.NewOrderUseCase(
		st.tx, ledger, valuation, alertEngine,
		st.orders, st.suppliers, st.products, pdfGenerator, policy, log.Component("orders"),
	)
	usageUC := inventory.NewUsageUseCase(st.tx, ledger, valuation, alertEngine, st.usages, log.Component("usages"))
	productUC := usecase.NewProductUseCase(st.tx, st.products, st.categories, st.movements, alertEngine, log.Component("products"))
	categoryUC := usecase.NewCategoryUseCase(st.categories, productUC)
	supplierUC := usecase.NewSupplierUseCase(st.suppliers, orderUC)
	priceHistoryUC := usecase.NewPriceHistoryUseCase(st.prices, st.products)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if cfg.Admin.Email != "" {
		created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("crear usuario admin")
		}
		if created {
			log.Info().Str("email", cfg.Admin.Email).Msg("usuario admin creado")
		}
	}

	if cfg.Inventory.ExpiryScanInterval > 0 {
		go runExpiryScan(ctx, alertEngine, cfg.Inventory.ExpiryScanInterval, log)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.SwaggerFile,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	} else {
		log.Debug().Str("file", cfg.SwaggerFile).Msg("sin swagger.json, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		ProductUC:        productUC,
		CategoryUC:       categoryUC,
		SupplierUC:       supplierUC,
		PriceHistoryUC:   priceHistoryUC,
		OrderUC:          orderUC,
		UsageUC:          usageUC,
		Alerts:           alertEngine,
		JWTSecret:        cfg.JWT.Secret,
		ExpiringSoonDays: cfg.Inventory.ExpiringSoonDays,
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("avisos pendientes descartados")
	}
	if kafkaSender != nil {
		if err := kafkaSender.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar writer de Kafka")
		}
	}

	log.Info().Msg("aplicación detenida")
}

// runExpiryScan barre productos vencidos cada interval hasta que ctx se cancela.
func runExpiryScan(ctx context.Context, engine *inventory.AlertEngine, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			opened, err := engine.ScanExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("barrido de vencidos")
				continue
			}
			if len(opened) > 0 {
				log.Info().Int("alerts", len(opened)).Msg("alertas de vencimiento abiertas")
			}
		}
	}
}
