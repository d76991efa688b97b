package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-tips-admin/content"
	"github.com/goliatone/go-tips-admin/internal/config"
	"github.com/goliatone/go-tips-admin/pkg/apperrors"
	"github.com/goliatone/go-tips-admin/pkg/di"
	"github.com/goliatone/go-tips-admin/pkg/logging"
	"github.com/goliatone/go-tips-admin/usecase"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, json or toml)")
	seed := flag.Bool("seed", false, "run a demo mutation sequence and print the read views")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *seed); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, configPath string, seed bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	container, err := di.NewContainer(ctx, *cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := container.Close(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	logger := container.Logger()
	logger.Info("configuration loaded", logging.Fields{"config": cfg.String()})

	if seed {
		if err := runDemo(ctx, container); err != nil {
			return err
		}
	}

	handler := container.Telemetry().Handler
	if handler == nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", logging.Fields{"addr": cfg.Metrics.Addr})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func runDemo(ctx context.Context, c *di.Container) error {
	reader := c.Reader()

	printViews := func(step string) error {
		dashboard, err := reader.Dashboard(ctx)
		if err != nil {
			return err
		}
		list, err := reader.CategoryList(ctx)
		if err != nil {
			return err
		}
		out, _ := json.MarshalIndent(map[string]any{
			"dashboard":     dashboard,
			"category_list": list,
		}, "", "  ")
		fmt.Printf("== %s\n%s\n", step, out)
		return nil
	}

	if err := printViews("empty"); err != nil {
		return err
	}

	productivity, err := c.Categories().Create(ctx, usecase.CategoryRequest{
		Name:        "Productivity",
		Description: "Getting more done with less effort",
	})
	if err != nil {
		return err
	}
	health, err := c.Categories().Create(ctx, usecase.CategoryRequest{Name: "Health"})
	if err != nil {
		return err
	}

	tip, err := c.Tips().Create(ctx, usecase.TipRequest{
		Title:      "Take walking breaks",
		Content:    "A ten minute walk every two hours keeps focus up.",
		CategoryID: productivity.ID,
	})
	if err != nil {
		return err
	}

	if _, err := c.Users().Create(ctx, usecase.UserRequest{
		Email: "admin@example.com",
		Name:  "Admin",
		Role:  content.RoleAdmin,
	}); err != nil {
		return err
	}

	if err := printViews("after creates"); err != nil {
		return err
	}

	if _, err := c.Tips().Update(ctx, tip.ID, usecase.TipRequest{
		Title:      tip.Title,
		Content:    tip.Content,
		CategoryID: health.ID,
	}); err != nil {
		return err
	}

	if err := printViews("after moving the tip to Health"); err != nil {
		return err
	}

	_, err = c.Tips().Create(ctx, usecase.TipRequest{Title: "Hi", Content: "too short", CategoryID: health.ID})
	if !apperrors.IsValidation(err) {
		return fmt.Errorf("expected a validation error, got %v", err)
	}
	fmt.Printf("== rejected invalid tip: %v\n", err)

	return printViews("after the rejected write")
}
