package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/radovskyb/watcher"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"adventune/folio/builder"
	"adventune/folio/site"
)

const reloadDelay = 500 * time.Millisecond

var (
	serverPort int
	noWatch    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site and reloads content on changes",
	Long: `The serve command renders pages on request from the content and data
directories. Unless --no-watch is set, it watches those directories and
reloads the content whenever a markdown, CSV or JSON file changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := appConfig.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}

		s, err := site.New(appConfig)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !noWatch {
			dirs := []string{appConfig.ContentDir, appConfig.DataDir}
			if err := builder.Watch(ctx, dirs, debounce(s.Reload)); err != nil {
				return err
			}
		}

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           noCache(s.Handler()),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shut down server")
			}
		}()

		log.Info().Int("port", port).Msg("Listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		log.Info().Msg("Server stopped")
		return nil
	},
}

// debounce returns a watcher callback that runs reload once changes have
// settled for reloadDelay.
func debounce(reload func() error) func(watcher.Event) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	return func(watcher.Event) {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(reloadDelay, func() {
			log.Info().Msg("Reloading content")
			if err := reload(); err != nil {
				log.Error().Err(err).Msg("Failed to reload content")
			}
		})
	}
}

// Set headers to prevent caching during development
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8000, "Port to serve the site on (default from config)")
	serveCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Disable the content watcher")
	rootCmd.AddCommand(serveCmd)
}
