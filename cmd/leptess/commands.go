package main

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ironsheep/leptess/internal/imaging"
	"github.com/ironsheep/leptess/internal/leptonica"
	"github.com/ironsheep/leptess/internal/ocr"
	"github.com/ironsheep/leptess/internal/server"
	"github.com/ironsheep/leptess/internal/tesseract"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	errColor    = color.New(color.FgRed, color.Bold)
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseRect reads "x1,y1,x2,y2".
func parseRect(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("rectangle %q: want x1,y1,x2,y2", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("rectangle %q: %w", s, err)
		}
		v[i] = n
	}
	r := image.Rect(v[0], v[1], v[2], v[3])
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: rectangle %q is empty", leptonica.ErrGeometryInvalid, s)
	}
	return r, nil
}

// clipRect resolves --rect or --region against pix.
func clipRect(pix *leptonica.Pix, rect, region string) (image.Rectangle, error) {
	switch {
	case rect != "" && region != "":
		return image.Rectangle{}, fmt.Errorf("use either --rect or --region, not both")
	case rect != "":
		return parseRect(rect)
	case region != "":
		return imaging.QuadrantRect(pix.Width(), pix.Height(), region)
	}
	return image.Rectangle{}, nil
}

func newServeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load(cmd)
			if err != nil {
				return err
			}
			logger.Info("starting MCP server",
				"version", Version, "commit", GitCommit, "built", BuildTime,
				"language", cfg.Language, "workers", cfg.Workers)

			srv := server.New(server.Options{
				OCR:     cfg.OCROptions(),
				Workers: cfg.Workers,
				Version: Version,
				Logger:  logger,
			})
			defer srv.Close()
			return srv.Run()
		},
	}
}

func newOCRCmd(g *globalFlags) *cobra.Command {
	var (
		rect   string
		region string
		hocr   bool
	)
	cmd := &cobra.Command{
		Use:   "ocr <image>...",
		Short: "Recognize text in one or more images",
		Long: `Recognize text in one or more images. Files are processed in parallel on
a pool of engines; a file that fails does not stop the others.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load(cmd)
			if err != nil {
				return err
			}
			opts := cfg.OCROptions()
			out := cmd.OutOrStdout()

			if hocr {
				return runHOCR(out, args, opts)
			}

			pool, err := ocr.NewPool(min(cfg.Workers, len(args)), opts)
			if err != nil {
				return err
			}
			defer pool.Close()

			var results []ocr.BatchResult
			if rect == "" && region == "" {
				results, err = pool.ExtractBatch(cmd.Context(), args)
			} else {
				results, err = recognizeRegions(cmd, pool, args, rect, region)
			}
			if err != nil {
				return err
			}

			if g.jsonOut {
				if err := printJSON(out, results); err != nil {
					return err
				}
			} else {
				printOCRResults(out, results)
			}

			failed := 0
			for _, r := range results {
				if r.Error != "" {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rect, "rect", "", "only recognize x1,y1,x2,y2")
	cmd.Flags().StringVar(&region, "region", "", "only recognize a named region, e.g. top-half")
	cmd.Flags().BoolVar(&hocr, "hocr", false, "print hOCR markup instead of text")
	return cmd
}

func recognizeRegions(cmd *cobra.Command, pool *ocr.Pool, paths []string, rect, region string) ([]ocr.BatchResult, error) {
	results := make([]ocr.BatchResult, len(paths))
	for i, path := range paths {
		results[i].Path = path
		pix, err := imaging.ReadPix(path)
		if err != nil {
			results[i].Error = err.Error()
			continue
		}
		r, err := clipRect(pix, rect, region)
		if err == nil {
			results[i].Result, err = pool.Recognize(cmd.Context(), pix, r)
		}
		pix.Close()
		if err != nil {
			if cmd.Context().Err() != nil {
				return results, err
			}
			results[i].Error = err.Error()
		}
	}
	return results, nil
}

func runHOCR(out io.Writer, paths []string, opts ocr.Options) error {
	for i, path := range paths {
		pix, err := imaging.ReadPix(path)
		if err != nil {
			return err
		}
		markup, err := ocr.ExtractHOCR(pix, i, opts)
		pix.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprint(out, markup)
	}
	return nil
}

func printOCRResults(out io.Writer, results []ocr.BatchResult) {
	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			headerColor.Fprintf(out, "==> %s <==\n", r.Path)
		}
		if r.Error != "" {
			errColor.Fprintf(out, "error: %s\n", r.Error)
			continue
		}
		text := strings.TrimRight(r.Result.FullText, "\n")
		if text == "" {
			warnColor.Fprintln(out, "(no text found)")
			continue
		}
		fmt.Fprintln(out, text)

		conf := okColor
		if r.Result.MeanConfidence < 60 {
			conf = warnColor
		}
		conf.Fprintf(out, "mean confidence %d, %d words\n", r.Result.MeanConfidence, len(r.Result.Regions))
	}
}

func newRegionsCmd(g *globalFlags) *cobra.Command {
	var (
		levelName     string
		minConfidence float64
		layout        bool
		textOnly      bool
	)
	cmd := &cobra.Command{
		Use:   "regions <image>",
		Short: "List where text is located in an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load(cmd)
			if err != nil {
				return err
			}
			level, ok := tesseract.ParseLevel(levelName)
			if !ok {
				return fmt.Errorf("unknown level %q (block, paragraph, textline, word, symbol)", levelName)
			}
			out := cmd.OutOrStdout()

			if layout {
				return printLayout(out, args[0], level, textOnly, g.jsonOut, cfg.OCROptions())
			}

			res, err := ocr.DetectTextRegions(args[0], level, minConfidence, cfg.OCROptions())
			if err != nil {
				return err
			}
			if g.jsonOut {
				return printJSON(out, res)
			}
			headerColor.Fprintf(out, "%d %s regions\n", res.Count, res.Level)
			for _, r := range res.Regions {
				b := r.Bounds
				fmt.Fprintf(out, "%5d,%-5d %5d,%-5d  %.2f\n", b.X1, b.Y1, b.X2, b.Y2, r.Confidence)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&levelName, "level", "block", "block, paragraph, textline, word or symbol")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "drop regions below this confidence (0-1)")
	cmd.Flags().BoolVar(&layout, "layout", false, "list raw layout components instead of recognized regions")
	cmd.Flags().BoolVar(&textOnly, "text-only", false, "with --layout, skip non-text components")
	return cmd
}

func printLayout(out io.Writer, path string, level tesseract.Level, textOnly, asJSON bool, opts ocr.Options) error {
	pix, err := imaging.ReadPix(path)
	if err != nil {
		return err
	}
	defer pix.Close()

	boxes, err := ocr.LayoutBoxes(pix, level, textOnly, opts)
	if err != nil {
		return err
	}
	defer boxes.Close()

	if asJSON {
		rects := boxes.Rects()
		bounds := make([]ocr.Bounds, len(rects))
		for i, r := range rects {
			bounds[i] = ocr.BoundsFromRect(r)
		}
		return printJSON(out, bounds)
	}

	headerColor.Fprintf(out, "%d %s components\n", boxes.Len(), tesseract.LevelName(level))
	for i, box := range boxes.All() {
		x, y, w, h := box.Geometry()
		box.Close()
		fmt.Fprintf(out, "%4d  x=%d y=%d w=%d h=%d\n", i, x, y, w, h)
	}
	return nil
}

func newClipCmd(g *globalFlags) *cobra.Command {
	var (
		rect       string
		region     string
		formatName string
	)
	cmd := &cobra.Command{
		Use:   "clip <input> <output>",
		Short: "Cut a rectangle out of an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := g.load(cmd); err != nil {
				return err
			}
			pix, err := imaging.ReadPix(args[0])
			if err != nil {
				return err
			}
			defer pix.Close()

			r, err := clipRect(pix, rect, region)
			if err != nil {
				return err
			}
			if r.Empty() {
				return fmt.Errorf("one of --rect or --region is required")
			}
			clipped, err := imaging.Clip(pix, r)
			if err != nil {
				return err
			}
			defer clipped.Close()

			return writePix(cmd.OutOrStdout(), clipped, args[1], formatName)
		},
	}
	cmd.Flags().StringVar(&rect, "rect", "", "x1,y1,x2,y2 to keep")
	cmd.Flags().StringVar(&region, "region", "", "named region: top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half or center")
	cmd.Flags().StringVarP(&formatName, "format", "f", "", "output encoding (default from extension)")
	return cmd
}

func newConvertCmd(g *globalFlags) *cobra.Command {
	var formatName string
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Re-encode an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := g.load(cmd); err != nil {
				return err
			}
			pix, err := imaging.ReadPix(args[0])
			if err != nil {
				return err
			}
			defer pix.Close()
			return writePix(cmd.OutOrStdout(), pix, args[1], formatName)
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "", "output encoding (default from extension)")
	return cmd
}

func writePix(out io.Writer, pix *leptonica.Pix, path, formatName string) error {
	format := leptonica.FormatFromPath(path)
	if formatName != "" {
		f, err := leptonica.ParseFormat(formatName)
		if err != nil {
			return err
		}
		format = f
	}
	if err := pix.Write(path, format); err != nil {
		return err
	}
	okColor.Fprintf(out, "wrote %s (%dx%d, %s)\n", path, pix.Width(), pix.Height(), format)
	return nil
}

func newInfoCmd(g *globalFlags) *cobra.Command {
	var formats bool
	cmd := &cobra.Command{
		Use:   "info [image]...",
		Short: "Describe images, or the OCR setup when no image is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if formats {
				for _, f := range leptonica.Formats() {
					fmt.Fprintf(out, "%2d  %s\n", int(f), f)
				}
				return nil
			}

			if len(args) == 0 {
				info := ocr.GetOCRInfo(cfg.OCROptions())
				if g.jsonOut {
					return printJSON(out, info)
				}
				printOCRInfo(out, info)
				if !info.Available {
					return fmt.Errorf("OCR unavailable")
				}
				return nil
			}

			cache := imaging.NewPixCache()
			defer cache.Clear()
			infos := make([]*imaging.ImageInfo, 0, len(args))
			for _, path := range args {
				info, err := imaging.LoadImageInfo(cache, path)
				if err != nil {
					return err
				}
				infos = append(infos, info)
			}
			if g.jsonOut {
				return printJSON(out, infos)
			}
			for i, info := range infos {
				headerColor.Fprintf(out, "%s\n", args[i])
				fmt.Fprintf(out, "  %dx%d, %d bpp, %s, %d bytes", info.Width, info.Height, info.Depth, info.Format, info.FileSizeBytes)
				if info.XRes > 0 {
					fmt.Fprintf(out, ", %dx%d ppi", info.XRes, info.YRes)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&formats, "formats", false, "list the supported image encodings")
	return cmd
}

func printOCRInfo(out io.Writer, info ocr.OCRInfo) {
	headerColor.Fprintln(out, "OCR")
	fmt.Fprintf(out, "  backend:    %s\n", info.Backend)
	fmt.Fprintf(out, "  tesseract:  %s\n", info.Version)
	fmt.Fprintf(out, "  leptonica:  %s\n", info.LeptonicaVersion)
	if info.TessdataPath != "" {
		fmt.Fprintf(out, "  tessdata:   %s\n", info.TessdataPath)
	}
	if info.Available {
		okColor.Fprintf(out, "  languages:  %s\n", info.Languages)
		if len(info.InstalledLanguages) > 0 {
			fmt.Fprintf(out, "  installed:  %s\n", strings.Join(info.InstalledLanguages, ", "))
		}
	} else {
		errColor.Fprintf(out, "  error:      %s\n", info.Error)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "leptess %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  Tesseract:  %s\n", tesseract.Version())
			fmt.Fprintf(out, "  Leptonica:  %s\n", leptonica.Version())
		},
	}
}
