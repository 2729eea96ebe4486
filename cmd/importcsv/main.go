// importcsv carga un archivo CSV de productos (UTF-8 o Windows-1252) al catálogo.
//
// Uso: go run ./cmd/importcsv -file productos.csv [-mode csv|ai]
// Usa la misma configuración que la API (DB_*, STORAGE_*, AI_*).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/cremeria-api/internal/application/catalog"
	"github.com/jhoicas/cremeria-api/internal/domain"
	infraai "github.com/jhoicas/cremeria-api/internal/infrastructure/ai"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/csvio"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cremeria-api/internal/infrastructure/storage"
	"github.com/jhoicas/cremeria-api/pkg/config"
	"github.com/jhoicas/cremeria-api/pkg/logger"
)

func main() {
	file := flag.String("file", "", "ruta del archivo .csv")
	mode := flag.String("mode", catalog.ImportModeCSV, "csv (parser) o ai (extracción con IA)")
	flag.Parse()
	if *file == "" {
		fmt.Fprintln(os.Stderr, "uso: importcsv -file productos.csv [-mode csv|ai]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "importcsv"})

	content, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("leer archivo")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	files, err := storage.New(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de archivos")
	}
	extractor, err := infraai.New(cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("extractor IA")
	}

	uc := catalog.NewImportUseCase(
		postgres.NewTxRunner(pool), postgres.NewProductRepository(pool),
		files, csvio.NewProductSheet(), extractor,
	)
	res, err := uc.Import(ctx, filepath.Base(*file), content, *mode)
	var partial *domain.PartialBatchError
	switch {
	case errors.As(err, &partial):
		for _, msg := range partial.Failures {
			log.Warn().Msg(msg)
		}
	case err != nil:
		log.Fatal().Err(err).Msg("importar productos")
	}

	log.Info().
		Str("archivo", res.FileURL).
		Int("total", res.Total).
		Int("creados", res.Created).
		Int("omitidos", res.Skipped).
		Msg(res.Message)
	if partial != nil {
		os.Exit(1)
	}
}
