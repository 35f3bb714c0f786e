package cli

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"time"

	"resumelens/internal/common"
	"resumelens/internal/pdf"
	"resumelens/internal/viewer"

	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view [resume-file.pdf]",
	Short: "Render a page of a PDF resume to a PNG image",
	Long: `Render one page of a PDF resume through the viewing engine and
export it as a PNG image. The page can be zoomed with --scale (0.5 to
3.0) or fitted to the surface width with --fit-width.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

var (
	viewPage     int
	viewScale    float64
	viewFitWidth bool
	viewWidth    int
	viewOutput   string
)

func init() {
	viewCmd.Flags().IntVarP(&viewPage, "page", "p", 1, "Page to render (1-based)")
	viewCmd.Flags().Float64VarP(&viewScale, "scale", "s", 0, "Zoom scale, clamped to 0.5-3.0 (default 1.0)")
	viewCmd.Flags().BoolVar(&viewFitWidth, "fit-width", false, "Scale the page to fill the surface width")
	viewCmd.Flags().IntVar(&viewWidth, "width", 800, "Surface width in pixels, used by --fit-width")
	viewCmd.Flags().StringVarP(&viewOutput, "output", "o", "page.png", "PNG file to write")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	om, shutdown, err := newObservability(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer shutdown()
	metrics := om.GetMetrics()

	fp := common.NewFileProcessor(logger)
	data, err := fp.ReadBytes(args[0])
	if err != nil {
		return err
	}

	open := func(ctx context.Context) (viewer.PageSource, error) {
		return pdf.Open(ctx, args[0], data, cfg.App.MaxFileSize, cfg.Viewer.RenderDPI)
	}

	surface := viewer.NewImageSurface(viewWidth, viewWidth)
	doc := viewer.NewDocument(open, surface, logger)
	defer doc.Close()

	err = doc.Load(cmd.Context())
	metrics.RecordBusinessMetric(cmd.Context(), "document_opened", err == nil, om)
	if err != nil {
		return err
	}

	if err := doc.GoToPage(viewPage); err != nil {
		return err
	}

	switch {
	case viewFitWidth:
		if err := doc.FitToWidth(); err != nil {
			return err
		}
	case viewScale > 0:
		doc.SetScale(viewScale)
	}

	start := time.Now()
	if err := doc.WaitRender(); err != nil {
		return err
	}
	metrics.RecordRender(cmd.Context(), doc.CurrentPage(), time.Since(start), false, om)

	var buf bytes.Buffer
	if err := png.Encode(&buf, surface.Image()); err != nil {
		return fmt.Errorf("failed to encode page image: %w", err)
	}
	if err := fp.WriteBytes(viewOutput, buf.Bytes()); err != nil {
		return err
	}

	logger.Info("Page rendered",
		"file", args[0],
		"page", doc.CurrentPage(),
		"of", doc.PageCount(),
		"scale", doc.Scale(),
		"output", viewOutput)
	fmt.Printf("Rendered page %d/%d at %.2fx to %s\n",
		doc.CurrentPage(), doc.PageCount(), doc.Scale(), viewOutput)
	return nil
}
