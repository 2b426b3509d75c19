package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/alphaset/lettercheck/internal/cli"
	"github.com/alphaset/lettercheck/internal/logging"
	"github.com/alphaset/lettercheck/internal/quality"
	"github.com/alphaset/lettercheck/internal/stt"
	"github.com/alphaset/lettercheck/internal/ui"
	"github.com/alphaset/lettercheck/internal/validate"
)

var (
	version = "0.1.0"
)

// errDefectsFound signals a completed run that flagged files. Callers script
// against the exit code: 0 means the dataset passed, 1 means review needed.
var errDefectsFound = errors.New("defects found")

// errAborted signals the user quit the progress view mid-batch.
var errAborted = errors.New("aborted")

type versionFlag bool

func (v versionFlag) BeforeApply(app *kong.Kong) error {
	cli.PrintVersion(version)
	app.Exit(0)
	return nil
}

// CLI defines the command-line interface
type CLI struct {
	Version versionFlag `short:"v" help:"Show version information"`
	Verbose bool        `env:"LETTERCHECK_VERBOSE" help:"Enable debug logging"`
	UI      bool        `help:"Show interactive progress view"`

	Quality  QualityCmd  `cmd:"" help:"Scan generated clips for signal-level quality defects"`
	Validate ValidateCmd `cmd:"" help:"Verify clip pronunciations with speech recognition"`
}

// QualityCmd scans a dataset for amplitude-domain defects.
type QualityCmd struct {
	Dir        string  `arg:"" optional:"" default:"outputs" help:"Dataset root containing per-letter folders"`
	Report     string  `default:"audio_quality_report.json" help:"Report output path"`
	SampleRate float64 `name:"sample-rate" default:"1.0" help:"Fraction of files to scan (0.0-1.0)"`
	MaxFiles   int     `name:"max-files" help:"Max files to scan"`
}

// ValidateCmd transcribes clips and checks pronunciations.
type ValidateCmd struct {
	OutputDir  string  `name:"output-dir" default:"outputs" help:"Directory containing per-letter audio folders"`
	ModelSize  string  `name:"model-size" enum:"tiny,base,small,medium,large" default:"base" help:"Whisper model size"`
	Device     string  `enum:"cpu,cuda" default:"cpu" help:"Device to run transcription on"`
	SampleRate float64 `name:"sample-rate" default:"1.0" help:"Fraction of files to validate per letter (0.0-1.0)"`
	MaxFiles   int     `name:"max-files" help:"Max files to validate per letter"`
	Report     string  `default:"validation_report.json" help:"Report output path"`
	WhisperBin string  `name:"whisper-bin" env:"LETTERCHECK_WHISPER_BIN" default:"whisper-cli" help:"whisper.cpp CLI binary"`
	ModelDir   string  `name:"model-dir" env:"LETTERCHECK_MODEL_DIR" default:"models" help:"Directory holding ggml whisper models"`
}

func main() {
	// Optional per-checkout configuration for env-tagged flags
	_ = godotenv.Load()

	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("lettercheck"),
		kong.Description("Quality and pronunciation auditor for generated letter-speech datasets"),
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	log.SetReportTimestamp(true)
	if cliArgs.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	err := ctx.Run(cliArgs)
	switch {
	case err == nil:
		os.Exit(0)
	case errors.Is(err, errDefectsFound):
		os.Exit(1)
	default:
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

// Run executes the quality scan.
func (c *QualityCmd) Run(root *CLI) error {
	analyzer := quality.NewAnalyzer(filepath.Dir(filepath.Clean(c.Dir)), quality.DefaultThresholds())
	opts := quality.Options{SampleRate: c.SampleRate, MaxFiles: c.MaxFiles}

	var report *quality.Report
	var err error
	if root.UI {
		report, err = runQualityUI(analyzer, c.Dir, opts)
	} else {
		report, err = analyzer.CheckAll(c.Dir, opts)
	}
	if err != nil {
		return err
	}

	logging.PrintQualitySummary(report)
	if err := report.Write(c.Report); err != nil {
		return err
	}
	log.Info("Report saved", "path", c.Report)

	if report.Summary.IssuesFound {
		log.Warn("Quality issues detected, check the report for details", "report", c.Report)
		return errDefectsFound
	}
	log.Info("All audio files pass quality checks")
	return nil
}

// Run executes the pronunciation validation.
func (c *ValidateCmd) Run(root *CLI) error {
	cfg := stt.DefaultWhisperConfig()
	cfg.Binary = c.WhisperBin
	cfg.ModelDir = c.ModelDir
	cfg.ModelSize = c.ModelSize
	cfg.Device = c.Device

	log.Info("Loading whisper model", "size", c.ModelSize, "device", c.Device)
	transcriber, err := stt.NewWhisper(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize model: %w", err)
	}

	validator := validate.NewValidator(transcriber, filepath.Dir(filepath.Clean(c.OutputDir)))
	opts := validate.Options{SampleRate: c.SampleRate, MaxFilesPerLetter: c.MaxFiles}

	var batch *validate.Batch
	if root.UI {
		batch, err = runValidateUI(validator, c.OutputDir, opts)
	} else {
		batch, err = validator.ValidateDirectory(context.Background(), c.OutputDir, opts)
	}
	if err != nil {
		return err
	}

	report := validate.BuildReport(batch, validate.ModelInfo{ModelSize: c.ModelSize, Device: c.Device})
	logging.PrintValidationSummary(report)
	if err := report.Write(c.Report); err != nil {
		return err
	}
	log.Info("Report saved", "path", c.Report)

	if report.Summary.FailedFiles > 0 {
		log.Warn("Pronunciation mismatches detected, check the report for details", "report", c.Report)
		return errDefectsFound
	}
	log.Info("All validated files match their expected letters")
	return nil
}

// runQualityUI runs the quality batch behind the progress view, mirroring the
// scan into Bubbletea messages.
func runQualityUI(analyzer *quality.Analyzer, dir string, opts quality.Options) (*quality.Report, error) {
	p := tea.NewProgram(ui.NewModel(), tea.WithAltScreen())

	started := false
	opts.OnResult = func(index, total int, res *quality.Result) {
		if !started {
			p.Send(ui.BatchStartMsg{Total: total, Label: "quality"})
			started = true
		}
		msg := ui.FileResultMsg{OK: false, Detail: "decode failed"}
		if res != nil {
			msg = ui.FileResultMsg{
				Path:   res.FilePath,
				Letter: res.Letter,
				OK:     res.Clean(),
				Detail: strings.Join(res.Issues, ", "),
			}
		}
		p.Send(msg)
	}

	var report *quality.Report
	var runErr error
	go func() {
		report, runErr = analyzer.CheckAll(dir, opts)
		p.Send(ui.AllCompleteMsg{})
	}()

	return report, runUI(p, &runErr)
}

// runValidateUI runs the validation batch behind the progress view.
func runValidateUI(validator *validate.Validator, dir string, opts validate.Options) (*validate.Batch, error) {
	p := tea.NewProgram(ui.NewModel(), tea.WithAltScreen())

	started := false
	opts.OnResult = func(done, total int, res *validate.Result) {
		if !started {
			p.Send(ui.BatchStartMsg{Total: total, Label: "validation"})
			started = true
		}
		detail := ""
		if !res.IsMatch {
			detail = res.ErrorType
			if res.TranscribedText != "" {
				detail = fmt.Sprintf("got %q", res.TranscribedText)
			}
		}
		p.Send(ui.FileResultMsg{
			Path:   res.FilePath,
			Letter: res.ExpectedLetter,
			OK:     res.IsMatch,
			Detail: detail,
		})
	}

	var batch *validate.Batch
	var runErr error
	go func() {
		batch, runErr = validator.ValidateDirectory(context.Background(), dir, opts)
		p.Send(ui.AllCompleteMsg{})
	}()

	return batch, runUI(p, &runErr)
}

// runUI drives the progress view to completion. Console logging is silenced
// while the alternate screen is active so log lines cannot tear the view.
func runUI(p *tea.Program, runErr *error) error {
	log.SetOutput(io.Discard)
	final, err := p.Run()
	log.SetOutput(os.Stderr)

	if err != nil {
		return fmt.Errorf("UI error: %w", err)
	}
	if m, ok := final.(ui.Model); ok && m.Aborted {
		return errAborted
	}
	return *runErr
}
