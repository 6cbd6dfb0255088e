// Comando reconcile ejecuta la conciliación completa de un negocio y escribe el reporte
// en JSON (stdout) o PDF. Solo lectura: nunca corrige descuadres.
//
//	go run ./cmd/reconcile -business <id> [-format json|pdf] [-out archivo]
//
// Sale con código 2 si hay descuadres o hallazgos.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/bootstrap"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	businessID := flag.String("business", "", "ID del negocio a conciliar (requerido)")
	format := flag.String("format", "json", "json | pdf")
	out := flag.String("out", "", "archivo de salida (por defecto stdout para json, conciliacion.pdf para pdf)")
	timeout := flag.Duration("timeout", 5*time.Minute, "tiempo máximo de ejecución")
	flag.Parse()

	if *businessID == "" {
		fmt.Fprintln(os.Stderr, "uso: reconcile -business <id> [-format json|pdf] [-out archivo]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	// el reporte va a stdout: los logs a stderr
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: os.Stderr})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	storage, err := bootstrap.Open(ctx, cfg, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer storage.Close()

	engine := bootstrap.NewEngine(storage, bootstrap.OptionsFrom(cfg.Inventory), log.Zerolog())

	report, err := engine.Report.Run(ctx, *businessID)
	if err != nil {
		log.Fatal().Err(err).Str("business_id", *businessID).Msg("conciliación")
	}

	switch *format {
	case "pdf":
		path := *out
		if path == "" {
			path = "conciliacion.pdf"
		}
		pdfBytes, err := engine.Report.RenderPDF(report)
		if err != nil {
			log.Fatal().Err(err).Msg("generar PDF")
		}
		if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("escribir PDF")
		}
		log.Info().Str("path", path).Msg("reporte PDF generado")
	default:
		w := os.Stdout
		if *out != "" {
			f, err := os.Create(*out)
			if err != nil {
				log.Fatal().Err(err).Str("path", *out).Msg("crear archivo")
			}
			defer f.Close()
			w = f
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatal().Err(err).Msg("escribir reporte")
		}
	}

	if report.Imbalanced > 0 || len(report.Findings) > 0 {
		log.Warn().Int("imbalanced", report.Imbalanced).Int("findings", len(report.Findings)).Msg("conciliación con descuadres")
		storage.Close()
		os.Exit(2)
	}
}
