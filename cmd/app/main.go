package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prasetyowira/checkin/api"
	"github.com/prasetyowira/checkin/api/console"
	"github.com/prasetyowira/checkin/config"
	"github.com/prasetyowira/checkin/constant"
	"github.com/prasetyowira/checkin/domain/attendance"
	"github.com/prasetyowira/checkin/infrastructure/cache"
	appLogger "github.com/prasetyowira/checkin/infrastructure/logger"
	"github.com/prasetyowira/checkin/infrastructure/qrcode"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.LoadConfig(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	appLogger.Initialize(cfg.IsProduction())
	defer appLogger.Close()

	appLogger.Info(constant.MsgApplicationStarting, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
		Data: map[string]interface{}{
			constant.DataOutputPath:  cfg.OutputPath,
			constant.DataEnvironment: cfg.LogLevel,
		},
	})

	generator := qrcode.NewGenerator(cache.NewNamespaceLRU[*qrcode.Image](cfg.CacheSize))
	service := attendance.NewService(attendance.NewBuilder(), generator, cfg.OutputPath)

	if cfg.Serve {
		return serve(cfg, service)
	}
	return generateOnce(cfg, service, stdin, stdout, stderr)
}

func generateOnce(cfg config.Config, service *attendance.Service, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx := appLogger.NewRunContext()

	in, err := collectInput(ctx, cfg, stdin, stdout)
	if err == nil {
		var result *attendance.Result
		result, err = service.Generate(ctx, in)
		if err == nil {
			console.Report(stdout, result, cfg.Display)
			return 0
		}
	}

	appLogger.CtxError(ctx, constant.MsgGenerationFailed, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeAppGenerate,
			Message: err.Error(),
			Type:    constant.ErrTypeApp,
		},
	})
	console.ReportError(stderr, err)
	return 1
}

// collectInput takes the input from flags, or from console prompts when no link was given
func collectInput(ctx context.Context, cfg config.Config, stdin io.Reader, stdout io.Writer) (attendance.Input, error) {
	if cfg.Link == "" {
		return console.NewPrompter(stdin, stdout).Collect(ctx)
	}

	mode, err := attendance.ParseMode(cfg.Mode)
	if err != nil {
		return attendance.Input{}, err
	}

	return attendance.Input{
		Link: cfg.Link,
		Mode: mode,
		Manual: attendance.ManualTime{
			Year:   cfg.Year,
			Month:  cfg.Month,
			Day:    cfg.Day,
			Hour:   cfg.Hour,
			Minute: cfg.Minute,
		},
	}, nil
}

func serve(cfg config.Config, service *attendance.Service) int {
	handler := api.NewHandler(service)
	router := api.NewRouter(handler)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info(constant.MsgServerStarting, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Data: map[string]interface{}{
				constant.DataPort: cfg.Port,
			},
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	select {
	case err := <-serverErr:
		appLogger.Error(constant.MsgServerFailedToStart, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppServerStart,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
			Data: map[string]interface{}{
				constant.DataPort: cfg.Port,
			},
		})
		return 1
	case <-quit:
	}

	appLogger.Info(constant.MsgServerShuttingDown, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error(constant.MsgServerShutdownError, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppServerShutdown,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
		})
	}

	appLogger.Info(constant.MsgServerStopped, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
	})
	return 0
}
