package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-press/internal/album"
	"github.com/kozaktomas/photo-press/internal/compose"
	"github.com/kozaktomas/photo-press/internal/config"
	"github.com/kozaktomas/photo-press/internal/library"
	"github.com/kozaktomas/photo-press/internal/paper"
	"github.com/kozaktomas/photo-press/internal/render"
)

var exportCmd = &cobra.Command{
	Use:   "export <folder|file> [folder|file...]",
	Short: "Export photos into a printable document",
	Long: `Export photos from folders or explicit files into a paginated
document, one photo per page, and render it with the configured
renderer profile.

By default, only files in the specified folders are used (non-recursive).
Use -r to search recursively in subdirectories. Pages follow the listing
order of each folder and the order of the arguments.

Example:
  photo-press export /path/to/photos -o holiday.pdf
  photo-press export --paper letter --orientation landscape /path/to/photos
  photo-press export -r --margin 15 --title "Summer 2026" /photos/2026`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "Write the document to this path (default: export directory)")
	exportCmd.Flags().String("paper", string(paper.SizeA4), "Paper size: a4, letter or legal")
	exportCmd.Flags().String("orientation", string(paper.Portrait), "Page orientation: portrait or landscape")
	exportCmd.Flags().Float64("margin", paper.DefaultMarginMM, "Page margin in millimetres")
	exportCmd.Flags().String("title", "", "Document title (default: name of the first argument)")
	exportCmd.Flags().BoolP("recursive", "r", false, "Search for photos recursively in subdirectories")
	exportCmd.Flags().Bool("share", false, "Copy the finished document into the share directory")
}

// pathReader reads photo bytes for handles that are absolute file paths.
type pathReader struct{}

func (pathReader) ReadFile(handle string) ([]byte, error) {
	return os.ReadFile(handle)
}

// collectAssets resolves the command arguments into probed assets with
// absolute paths as handles. Folder arguments go through a Library so
// the permission check and listing order match the web picker.
func collectAssets(args []string, recursive bool) ([]album.Asset, error) {
	var assets []album.Asset
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			lib, err := library.Open(arg)
			if err != nil {
				return nil, err
			}
			listed, err := lib.List(recursive)
			if err != nil {
				return nil, err
			}
			for _, asset := range listed {
				asset.Handle = filepath.Join(lib.Root(), filepath.FromSlash(asset.Handle))
				assets = append(assets, asset)
			}
			continue
		}

		if !library.IsImageFile(info.Name()) {
			return nil, fmt.Errorf("%s is not a supported photo file", arg)
		}
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", arg, err)
		}
		assets = append(assets, library.Probe(abs))
	}
	return assets, nil
}

// moveFile renames src to dst, falling back to copy and remove when the
// two live on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return os.Remove(src)
}

func runExport(cmd *cobra.Command, args []string) error {
	size, err := paper.ParseSize(mustGetString(cmd, "paper"))
	if err != nil {
		return err
	}
	orientation, err := paper.ParseOrientation(mustGetString(cmd, "orientation"))
	if err != nil {
		return err
	}
	g := paper.Geometry{
		Size:        size,
		Orientation: orientation,
		MarginMM:    mustGetFloat64(cmd, "margin"),
	}

	cfg := config.Load()

	assets, err := collectAssets(args, mustGetBool(cmd, "recursive"))
	if err != nil {
		return err
	}
	if len(assets) == 0 {
		fmt.Println("No photos found in the given locations.")
		return nil
	}

	// The album dedupes repeated paths and fixes the page order.
	alb := album.New()
	alb.Add(assets)
	photos := alb.Photos()

	title := mustGetString(cmd, "title")
	if title == "" {
		base := filepath.Base(args[0])
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	profileName, profile, err := cfg.ResolveProfile()
	if err != nil {
		return err
	}
	engine := render.NewEngine(profile.Command, profile.Args, profile.Direct, cfg.ExportDir())
	if err := engine.Available(); err != nil {
		return err
	}

	pageW, pageH := g.PageMM()
	fmt.Printf("Found %d photo(s), %s %s (%.0f x %.0f mm), renderer: %s\n\n",
		len(photos), g.Size, g.Orientation, pageW, pageH, profileName)

	bar := progressbar.NewOptions(len(photos),
		progressbar.OptionSetDescription("Encoding"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("photos"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exporter := compose.NewExporter(pathReader{}, engine, cfg.Export.Concurrency)
	artifact, report, err := exporter.Export(ctx, title, g, photos, func() { bar.Add(1) })
	fmt.Println()
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	for _, warning := range report.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}

	if artifact == nil {
		fmt.Printf("\nDone! %d page(s) sent to %s\n", report.PageCount, profileName)
		return nil
	}

	outPath := artifact.Path
	if output := mustGetString(cmd, "output"); output != "" {
		if err := moveFile(artifact.Path, output); err != nil {
			return fmt.Errorf("move document: %w", err)
		}
		outPath = output
	}
	fmt.Printf("\nDone! %d page(s) written to %s\n", report.PageCount, outPath)

	if mustGetBool(cmd, "share") {
		artifact.Path = outPath
		dest, err := render.NewShare(cfg.Share.Dir).ShareArtifact(ctx, artifact)
		if err != nil {
			return fmt.Errorf("share document: %w", err)
		}
		fmt.Printf("Shared to %s\n", dest)
	}
	return nil
}
