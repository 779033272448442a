package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var libraryDir string

var rootCmd = &cobra.Command{
	Use:   "photo-press",
	Short: "Turn photos into printable multi-page documents",
	Long: `Photo Press lays out photos one per page on a chosen paper size and
hands the assembled document to an external renderer (WeasyPrint,
wkhtmltopdf, Chromium or a print queue) to produce a PDF.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&libraryDir, "library", "", "Photo library directory (overrides LIBRARY_DIR)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
