package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ModelSizes are the whisper model sizes the CLI accepts.
var ModelSizes = []string{"tiny", "base", "small", "medium", "large"}

// WhisperConfig configures the whisper.cpp subprocess engine.
type WhisperConfig struct {
	Binary    string // whisper.cpp CLI binary, resolved via PATH
	ModelDir  string // directory holding ggml-<size>.bin models
	ModelSize string // tiny, base, small, medium, large
	Device    string // cpu or cuda
	Language  string
	BeamSize  int
	Threads   int // 0 leaves the binary default
}

// DefaultWhisperConfig returns the defaults for short English letter clips.
func DefaultWhisperConfig() WhisperConfig {
	return WhisperConfig{
		Binary:    "whisper-cli",
		ModelDir:  "models",
		ModelSize: "base",
		Device:    "cpu",
		Language:  "en",
		BeamSize:  5,
	}
}

// Whisper transcribes clips by running the whisper.cpp CLI once per file.
// A fresh process per clip means no decoding context can leak between clips,
// which matters for a corpus of independent one-letter utterances.
type Whisper struct {
	config    WhisperConfig
	binary    string // resolved absolute path
	modelPath string
}

// NewWhisper resolves the binary and model file up front so a missing backend
// fails the run before any file is processed.
func NewWhisper(cfg WhisperConfig) (*Whisper, error) {
	if !validModelSize(cfg.ModelSize) {
		return nil, fmt.Errorf("unknown model size %q (expected one of %s)",
			cfg.ModelSize, strings.Join(ModelSizes, ", "))
	}

	binary, err := exec.LookPath(cfg.Binary)
	if err != nil {
		return nil, fmt.Errorf("whisper binary %q not found: %w", cfg.Binary, err)
	}

	modelPath := filepath.Join(cfg.ModelDir, "ggml-"+cfg.ModelSize+".bin")
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("whisper model not found: %s", modelPath)
	}

	return &Whisper{config: cfg, binary: binary, modelPath: modelPath}, nil
}

// Transcribe runs the whisper.cpp CLI on one clip and parses its JSON output.
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (*Transcription, error) {
	outDir, err := os.MkdirTemp("", "lettercheck-stt-")
	if err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	outBase := filepath.Join(outDir, "transcript")
	cmd := exec.CommandContext(ctx, w.binary, w.args(audioPath, outBase)...)

	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("whisper failed on %s: %w (%s)",
			filepath.Base(audioPath), err, lastLine(stderr.String()))
	}

	data, err := os.ReadFile(outBase + ".json")
	if err != nil {
		return nil, fmt.Errorf("whisper produced no output for %s: %w", filepath.Base(audioPath), err)
	}

	return parseWhisperJSON(data)
}

// args builds the CLI invocation: English, beam search, full JSON output with
// token probabilities, console printing suppressed.
func (w *Whisper) args(audioPath, outBase string) []string {
	args := []string{
		"-m", w.modelPath,
		"-l", w.config.Language,
		"-bs", fmt.Sprintf("%d", w.config.BeamSize),
		"-ojf",
		"-of", outBase,
		"-np",
	}
	if w.config.Device == "cpu" {
		args = append(args, "-ng")
	}
	if w.config.Threads > 0 {
		args = append(args, "-t", fmt.Sprintf("%d", w.config.Threads))
	}
	return append(args, audioPath)
}

// whisperOutput mirrors the parts of whisper.cpp's full JSON output we use.
type whisperOutput struct {
	Transcription []whisperSegment `json:"transcription"`
}

type whisperSegment struct {
	Text   string         `json:"text"`
	Tokens []whisperToken `json:"tokens"`
}

type whisperToken struct {
	Text string  `json:"text"`
	P    float64 `json:"p"`
}

// parseWhisperJSON converts whisper.cpp output into a Transcription. Segment
// log-probabilities are averaged over the natural-language tokens; special
// tokens like [_BEG_] carry no speech evidence and are skipped.
func parseWhisperJSON(data []byte) (*Transcription, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse whisper output: %w", err)
	}

	tr := &Transcription{}
	for _, seg := range out.Transcription {
		sum := 0.0
		count := 0
		for _, tok := range seg.Tokens {
			if tok.P <= 0 || strings.HasPrefix(tok.Text, "[_") {
				continue
			}
			sum += math.Log(tok.P)
			count++
		}
		avg := 0.0
		if count > 0 {
			avg = sum / float64(count)
		}
		tr.Segments = append(tr.Segments, Segment{
			Text:       seg.Text,
			AvgLogProb: avg,
		})
	}
	return tr, nil
}

func validModelSize(size string) bool {
	for _, s := range ModelSizes {
		if s == size {
			return true
		}
	}
	return false
}

// lastLine extracts the final non-empty stderr line for error messages.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return "no error output"
}
