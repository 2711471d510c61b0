package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"workhours/report"
	"workhours/web"
)

var (
	servePort   int
	serveMonth  string
	serveNoOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web UI",
	Long: `Start a local HTTP server (bound to localhost) with a day page for entering
and deleting intervals, a month report page and a JSON API.

The server stops on Ctrl+C.`,
	Example: `
  # Start local server on the configured port
  workhours serve

  # Custom port, open the March report first
  workhours serve --port 9090 --month 2024-03
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		startMonth := strings.TrimSpace(serveMonth)
		if startMonth != "" {
			if _, err := report.ParseYearMonth(startMonth); err != nil {
				return fmt.Errorf("invalid --month value: %w", err)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		port := a.cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		handler := web.NewServer(a.ledger, web.WithLogger(a.logger))
		defer handler.Close()

		server := &http.Server{
			Addr:              fmt.Sprintf("127.0.0.1:%d", port),
			Handler:           withServeMonthRedirect(handler, startMonth),
			ReadHeaderTimeout: 10 * time.Second,
		}

		group, groupCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		group.Go(func() error {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			return nil
		})

		listenURL := fmt.Sprintf("http://localhost:%d", port)
		fmt.Printf("Listening on %s\n", listenURL)
		a.logger.Info("web server started", "addr", server.Addr)
		if !serveNoOpen {
			target := listenURL
			if startMonth != "" {
				target += "/month/" + startMonth
			}
			if openErr := openURLInBrowser(target); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		return group.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local web server (default: server.port from config)")
	serveCmd.Flags().StringVar(&serveMonth, "month", "", "Open this month YYYY-MM instead of today's day page")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

// withServeMonthRedirect sends the root page to a preselected month report.
func withServeMonthRedirect(next http.Handler, month string) http.Handler {
	if month == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/" {
			http.Redirect(w, r, "/month/"+month, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
