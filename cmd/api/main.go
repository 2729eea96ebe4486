package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	appanalytics "github.com/jhoicas/cremeria-api/internal/application/analytics"
	"github.com/jhoicas/cremeria-api/internal/application/auth"
	"github.com/jhoicas/cremeria-api/internal/application/catalog"
	"github.com/jhoicas/cremeria-api/internal/application/dto"
	"github.com/jhoicas/cremeria-api/internal/application/orders"
	"github.com/jhoicas/cremeria-api/internal/application/ports"
	"github.com/jhoicas/cremeria-api/internal/application/usecase"
	"github.com/jhoicas/cremeria-api/internal/domain"
	"github.com/jhoicas/cremeria-api/internal/domain/entity"
	"github.com/jhoicas/cremeria-api/internal/domain/repository"
	infraai "github.com/jhoicas/cremeria-api/internal/infrastructure/ai"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/csvio"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/cremeria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/session"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/cremeria-api/internal/interfaces/http"
	"github.com/jhoicas/cremeria-api/pkg/config"
	"github.com/jhoicas/cremeria-api/pkg/logger"
)

const companyName = "Cremería"

type txRunner interface {
	orders.TxRunner
	catalog.TxRunner
}

// stores repositorios del driver configurado.
type stores struct {
	tx       txRunner
	products repository.ProductRepository
	clients  repository.ClientRepository
	users    repository.UserRepository
	orders   repository.OrderRepository
	lines    repository.OrderLineRepository
	close    func()
}

func openStores(ctx context.Context, cfg config.DBConfig) (*stores, error) {
	if cfg.Driver == "memory" {
		s := memory.NewStore()
		return &stores{
			tx:       s,
			products: s.Products(),
			clients:  s.Clients(),
			users:    s.Users(),
			orders:   s.Orders(),
			lines:    s.OrderLines(),
			close:    func() {},
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &stores{
		tx:       postgres.NewTxRunner(pool),
		products: postgres.NewProductRepository(pool),
		clients:  postgres.NewClientRepository(pool),
		users:    postgres.NewUserRepository(pool),
		orders:   postgres.NewOrderRepository(pool),
		lines:    postgres.NewOrderLineRepository(pool),
		close:    pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	loc := cfg.App.Location()

	st, err := openStores(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer st.close()

	// Redis opcional: sin él el logout no revoca tokens.
	var sessions ports.SessionStore
	if cfg.Redis.Addr != "" {
		rdb, err := session.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: el logout no revoca tokens")
	}

	files, err := storage.New(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de archivos")
	}
	extractor, err := infraai.New(cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("extractor IA")
	}
	if extractor == nil {
		log.Info().Msg("importación con IA deshabilitada (AI_PROVIDER=none)")
	}

	authUC := auth.NewAuthUseCase(st.users, sessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(st.users, st.clients)
	clientUC := usecase.NewClientUseCase(st.clients)
	productUC := catalog.NewProductUseCase(st.products, st.clients)
	importUC := catalog.NewImportUseCase(st.tx, st.products, files, csvio.NewProductSheet(), extractor)
	orderUC := orders.NewOrderUseCase(st.tx, st.orders, st.lines, st.products, st.clients, loc)
	exportUC := orders.NewExportUseCase(orderUC, csvio.NewOrderSheet())
	pdfUC := orders.NewPDFUseCase(orderUC, infrapdf.NewMarotoPDFGenerator(companyName, loc))
	dashboardUC := appanalytics.NewDashboardUseCase(st.orders, st.clients, st.products, loc)

	if cfg.App.AdminEmail != "" && cfg.App.AdminPassword != "" {
		_, err := userUC.Create(ctx, dto.CreateUserRequest{
			Email:          cfg.App.AdminEmail,
			Password:       cfg.App.AdminPassword,
			FullName:       "Administrador",
			UserAssignment: dto.UserAssignment{Role: string(entity.RoleAdmin)},
		})
		switch {
		case err == nil:
			log.Info().Str("email", cfg.App.AdminEmail).Msg("administrador inicial creado")
		case errors.Is(err, domain.ErrEmailAlreadyExists):
		default:
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
	}

	app := httpRouter.NewApp(cfg.App.Name, cfg.HTTP.BodyLimitMB, log)

	// Swagger UI en local: http://localhost:<port>/docs
	if httpRouter.MountDocs(app, "./docs/swagger.json", "Cremería API") {
		log.Info().Msg("Swagger UI en /docs")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		ImportUC:    importUC,
		ClientUC:    clientUC,
		UserUC:      userUC,
		OrderUC:     orderUC,
		ExportUC:    exportUC,
		PDFUC:       pdfUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
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
