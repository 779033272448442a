package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-press/internal/config"
	"github.com/kozaktomas/photo-press/internal/library"
	"github.com/kozaktomas/photo-press/internal/render"
	"github.com/kozaktomas/photo-press/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Photo Press web server.
The web server provides a browser-based interface for picking photos,
arranging pages, previewing the layout and exporting documents.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if libraryDir != "" {
		cfg.Library.Dir = libraryDir
	}

	lib, err := library.Open(cfg.LibraryDir())
	if err != nil {
		return fmt.Errorf("opening photo library: %w", err)
	}
	fmt.Printf("Photo library: %s\n", lib.Root())

	profileName, profile, err := cfg.ResolveProfile()
	if err != nil {
		return err
	}
	engine := render.NewEngine(profile.Command, profile.Args, profile.Direct, cfg.ExportDir())
	if profile.About != "" {
		fmt.Printf("Renderer: %s (%s)\n", profileName, profile.About)
	} else {
		fmt.Printf("Renderer: %s\n", profileName)
	}
	if err := engine.Available(); err != nil {
		fmt.Printf("Warning: %v\n", err)
		fmt.Println("Exports will fail until the renderer binary is installed")
	}

	share := render.NewShare(cfg.Share.Dir)
	if cfg.Share.Dir != "" {
		fmt.Printf("Share directory: %s\n", cfg.Share.Dir)
	}

	port, host := resolveServeHostPort(cmd)
	server := web.NewServer(cfg, port, host, lib, engine, share)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Photo Press Web UI on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
