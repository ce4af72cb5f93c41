// Command registrations lists trial bookings from the configured store.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/essenciabjj/trial/internal/config"
	"github.com/essenciabjj/trial/internal/logger"
	"github.com/essenciabjj/trial/internal/models"
	"github.com/essenciabjj/trial/internal/report"
	"github.com/essenciabjj/trial/internal/services"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("%v", err))
		os.Exit(1)
	}
}

// run does all the work so deferred cleanup happens before main exits.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("registrations", flag.ContinueOnError)
	format := fs.String("format", "table", "output format: table, csv or xlsx")
	out := fs.String("out", "", "output file (required for xlsx, stdout otherwise)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	zl, err := logger.NewTo(cfg.Environment, "stderr")
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer zl.Sync()

	store, closeStore, err := services.OpenStore(cfg, zl)
	if err != nil {
		return fmt.Errorf("open registration store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			zl.Warn("Failed to close registration store", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	regs, err := services.NewRegistrationService(store, zl).List(ctx)
	if err != nil {
		return fmt.Errorf("could not list registrations: %w", err)
	}
	return write(*format, *out, regs)
}

func write(format, out string, regs []models.Registration) error {
	if format == "xlsx" && out == "" {
		return fmt.Errorf("-format xlsx needs -out")
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "table":
		fmt.Fprintln(w, color.CyanString("\n=== Aulas experimentais (%d) ===", len(regs)))
		report.WriteTable(w, regs)
		return nil
	case "csv":
		return report.WriteCSV(w, regs)
	case "xlsx":
		if err := report.WriteXLSX(w, regs); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, color.GreenString("Wrote %d registrations to %s", len(regs), out))
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}
