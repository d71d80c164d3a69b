package pkg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"finishline/internal/app/config"
	"finishline/internal/app/handler"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

// Drainer finishes background work before the process exits.
type Drainer interface {
	Wait()
}

type Application struct {
	Config  *config.Config
	Router  *gin.Engine
	Handler *handler.APIHandler
	Drainer Drainer
}

func NewApp(c *config.Config, r *gin.Engine, h *handler.APIHandler, d Drainer) *Application {
	return &Application{
		Config:  c,
		Router:  r,
		Handler: h,
		Drainer: d,
	}
}

// RunApp serves until ctx is cancelled, then shuts down gracefully.
func (a *Application) RunApp(ctx context.Context) error {
	logrus.Info("Server start up")

	a.Handler.RegisterAPIRoutes(a.Router)

	serverAddress := fmt.Sprintf("%s:%d", a.Config.ServiceHost, a.Config.ServicePort)
	server := &http.Server{
		Addr:              serverAddress,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	banner(a.Config, serverAddress)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", serverAddress, err)
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if a.Drainer != nil {
		a.Drainer.Wait()
	}

	logrus.Info("Server down")
	return nil
}

func banner(cfg *config.Config, addr string) {
	mode := color.New(color.FgGreen, color.Bold)
	if cfg.IsProd() {
		mode = color.New(color.FgRed, color.Bold)
	}
	color.New(color.FgCyan, color.Bold).Print("FinishLine ")
	mode.Printf("[%s] ", cfg.Mode)
	fmt.Printf("listening on http://%s\n", addr)
}
