package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tubescribe/internal/app"
	"tubescribe/internal/batch"
	"tubescribe/internal/config"
	"tubescribe/internal/logger"
)

// errJobsFailed signals a completed batch with at least one failed job so
// main can exit with the batch-failure code.
var errJobsFailed = errors.New("some jobs failed")

func newRootCommand() *cobra.Command {
	var (
		fileFlag        string
		modelFlag       string
		deviceFlag      string
		languageFlag    string
		outputDirFlag   string
		downloadDirFlag string
		configFlag      string
		beamSizeFlag    int
		noHistoryFlag   bool
		verboseFlag     bool
	)

	rootCmd := &cobra.Command{
		Use:   "tubescribe [URL...]",
		Short: "Download audio from video URLs and generate transcripts (TXT/SRT/VTT)",
		Example: `  # Transcribe one video
  tubescribe "https://youtu.be/AAA"

  # Batch from a file (blank lines and # comments allowed), forcing CPU
  tubescribe --file urls.txt --device cpu --model base

  # Mix a file with extra inline URLs
  tubescribe --file urls.txt "https://youtu.be/BBB"`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(configFlag)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("model") {
				cfg.Set("whisper.model_size", modelFlag)
			}
			if flags.Changed("device") {
				cfg.Set("whisper.device", deviceFlag)
			}
			if flags.Changed("language") {
				cfg.Set("whisper.language", languageFlag)
			}
			if flags.Changed("output-dir") {
				cfg.Set("output.dir", outputDirFlag)
			}
			if flags.Changed("download-dir") {
				cfg.Set("download.dir", downloadDirFlag)
			}
			if flags.Changed("beam-size") {
				cfg.Set("whisper.beam_size", beamSizeFlag)
			}
			if noHistoryFlag {
				cfg.Set("history.enabled", false)
			}

			return runBatch(cmd, cfg, fileFlag, args, verboseFlag)
		},
	}

	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Path to a text file with one source URL per line")
	rootCmd.Flags().StringVar(&modelFlag, "model", "base", "Whisper model size (tiny/base/small/medium/large-v3)")
	rootCmd.Flags().StringVar(&deviceFlag, "device", "cpu", "Device for transcription (cpu/cuda/auto)")
	rootCmd.Flags().StringVar(&languageFlag, "language", "", "Force language code (e.g. 'en'); defaults to auto-detect")
	rootCmd.Flags().StringVarP(&outputDirFlag, "output-dir", "o", "outputs", "Directory transcripts are written to")
	rootCmd.Flags().StringVar(&downloadDirFlag, "download-dir", "downloads", "Directory downloaded audio is stored in")
	rootCmd.Flags().IntVar(&beamSizeFlag, "beam-size", 5, "Beam size for whisper decoding")
	rootCmd.Flags().BoolVar(&noHistoryFlag, "no-history", false, "Do not record completed jobs to the run ledger")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose structured logging")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newHistoryCommand(&configFlag))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// loadConfiguration reads settings from an explicit config file when given,
// otherwise from TUBESCRIBE_* environment variables.
func loadConfiguration(configFile string) (*config.Configuration, error) {
	if configFile != "" {
		return config.NewConfigurationFromFile(configFile)
	}
	return config.NewConfigurationFromEnv(), nil
}

func newBatchLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return logger.NewDevelopmentLogger()
	}
	return logger.NewQuietLogger()
}

func runBatch(cmd *cobra.Command, cfg *config.Configuration, sourcesFile string, inlineSources []string, verbose bool) error {
	zapLogger, err := newBatchLogger(verbose)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	rawLines, err := collectRawSources(cmd.InOrStdin(), cmd.ErrOrStderr(), sourcesFile, inlineSources)
	if err != nil {
		return err
	}

	observer := newConsoleObserver(cmd.OutOrStdout())
	application, err := app.NewApplication(cfg, zapLogger, observer)
	if err != nil {
		return err
	}
	defer application.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := application.RunBatch(ctx, rawLines)
	if err != nil {
		if errors.Is(err, batch.ErrNoSources) {
			return fmt.Errorf("no sources provided: add URLs as arguments or via --file path/to/urls.txt")
		}
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted, remaining jobs skipped")
		}
		return err
	}

	if !summary.AllOK() {
		return fmt.Errorf("%d of %d jobs failed: %w", summary.Failed, summary.OK+summary.Failed, errJobsFailed)
	}
	return nil
}

// collectRawSources merges file lines with inline arguments, prompting for
// a single URL when neither was given.
func collectRawSources(in io.Reader, errOut io.Writer, sourcesFile string, inlineSources []string) ([]string, error) {
	var rawLines []string
	if sourcesFile != "" {
		lines, err := batch.ReadSourcesFile(sourcesFile)
		if err != nil {
			return nil, err
		}
		rawLines = append(rawLines, lines...)
	}
	rawLines = append(rawLines, inlineSources...)

	if len(batch.ParseSources(rawLines)) == 0 && sourcesFile == "" && len(inlineSources) == 0 {
		url, err := promptForURL(in, errOut)
		if err != nil {
			return nil, err
		}
		rawLines = append(rawLines, url)
	}

	return rawLines, nil
}

// promptForURL asks interactively for one URL, matching the single-video
// flow when the tool is launched without arguments.
func promptForURL(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Paste video URL: ")
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("no URL provided")
	}
	url := strings.Trim(strings.TrimSpace(line), `"'`)
	if url == "" {
		return "", fmt.Errorf("no URL provided")
	}
	return url, nil
}
