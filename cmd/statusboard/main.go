// Package main provides the CLI entry point for the statusboard
// service.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sycamoredash/statusboard/pkg/config"
	"github.com/sycamoredash/statusboard/pkg/gridstore"
	"github.com/sycamoredash/statusboard/pkg/httpapi"
	"github.com/sycamoredash/statusboard/pkg/statusboard"
)

var (
	configPath string
	listenAddr string
	exportWeek string
	exportOut  string
	pretty     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "statusboard",
		Short: "Customer status dashboard backend",
		Long: `statusboard reconciles per-week customer status workbooks into a
single merged view and serves it over HTTP.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (overrides config)")

	exportCmd := &cobra.Command{
		Use:   "export [customer]",
		Short: "Export a customer's full record bundle as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&exportWeek, "week", "", "Week to export (default: current week)")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Output file path (default: stdout)")
	exportCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(serveCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *statusboard.Service, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	store := gridstore.NewWorkbookStore(cfg.DataDir)
	return cfg, statusboard.NewService(cfg, store, logger), logger, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, svc, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	addr := cfg.ListenAddr
	if listenAddr != "" {
		addr = listenAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.New(svc, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", addr),
			zap.String("master", cfg.Master()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	_, svc, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	week := exportWeek
	if week == "" {
		week = statusboard.CurrentWeek(time.Now())
	}

	bundle, err := svc.Export(cmd.Context(), week, args[0])
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	var data []byte
	if pretty {
		data, err = json.MarshalIndent(bundle, "", "  ")
	} else {
		data, err = json.Marshal(bundle)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if exportOut != "" {
		if err := os.WriteFile(exportOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Println(string(data))
	return nil
}
