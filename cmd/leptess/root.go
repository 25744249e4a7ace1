package main

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ironsheep/leptess/internal/config"
	"github.com/ironsheep/leptess/internal/leptonica"
	"github.com/ironsheep/leptess/internal/logging"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	logJSON    bool
	language   string
	tessdata   string
	workers    int
	dpi        int
	psm        int
	preprocess bool
	jsonOut    bool
	noColor    bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "leptess",
		Short: "OCR and image tools on Leptonica and Tesseract",
		Long: `leptess reads images with Leptonica and recognizes text with Tesseract.

Run "leptess serve" to expose the tools to an MCP client over stdin/stdout,
or use the commands below directly.

Environment variables:
  LEPTESS_TESSDATA    traineddata directory (TESSDATA_PREFIX is also read)
  LEPTESS_LANG        recognition language, e.g. eng or eng+deu
  LEPTESS_WORKERS     engine pool size
  LEPTESS_DPI         resolution assumed for images without one
  LEPTESS_LOG_LEVEL   debug, info, warn or error`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.noColor || g.jsonOut {
				color.NoColor = true
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&g.configPath, "config", "c", "", "JSON config file")
	f.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.BoolVar(&g.logJSON, "log-json", false, "write logs as JSON")
	f.StringVarP(&g.language, "lang", "l", "", "Tesseract language (default eng)")
	f.StringVar(&g.tessdata, "tessdata", "", "traineddata directory")
	f.IntVarP(&g.workers, "workers", "w", 0, "number of OCR engines")
	f.IntVar(&g.dpi, "dpi", 0, "resolution assumed for images that record none")
	f.IntVar(&g.psm, "psm", 0, "Tesseract page segmentation mode (1-13)")
	f.BoolVar(&g.preprocess, "preprocess", false, "clean up images before recognition")
	f.BoolVar(&g.jsonOut, "json", false, "print results as JSON")
	f.BoolVar(&g.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newServeCmd(g),
		newOCRCmd(g),
		newRegionsCmd(g),
		newClipCmd(g),
		newConvertCmd(g),
		newInfoCmd(g),
		newVersionCmd(),
	)
	return root
}

// load builds the effective configuration: defaults, then the config file,
// then the environment, then flags the user set explicitly. It also installs
// the process logger.
func (g *globalFlags) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if flags.Changed("lang") {
		cfg.Language = g.language
	}
	if flags.Changed("tessdata") {
		cfg.Tessdata = g.tessdata
	}
	if flags.Changed("workers") {
		cfg.Workers = g.workers
	}
	if flags.Changed("dpi") {
		cfg.DPI = g.dpi
	}
	if flags.Changed("psm") {
		cfg.PageSegMode = g.psm
	}
	if flags.Changed("preprocess") {
		cfg.Preprocess = g.preprocess
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.Setup(cfg.LogLevel, g.logJSON)
	if err != nil {
		return nil, nil, err
	}
	leptonica.SetQuiet(cfg.LogLevel != "debug")
	return cfg, logger, nil
}
