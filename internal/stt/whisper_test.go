package stt

import (
	"math"
	"testing"
)

func TestParseWhisperJSON(t *testing.T) {
	data := []byte(`{
		"transcription": [
			{
				"text": " Bee.",
				"tokens": [
					{"text": "[_BEG_]", "p": 0.99},
					{"text": " Bee", "p": 0.9},
					{"text": ".", "p": 0.8}
				]
			}
		]
	}`)

	tr, err := parseWhisperJSON(data)
	if err != nil {
		t.Fatalf("parseWhisperJSON() error: %v", err)
	}

	if len(tr.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(tr.Segments))
	}
	if tr.Text() != "Bee." {
		t.Errorf("Text() = %q, want %q", tr.Text(), "Bee.")
	}

	// Special [_BEG_] token is excluded: mean(ln 0.9, ln 0.8)
	want := (math.Log(0.9) + math.Log(0.8)) / 2
	if math.Abs(tr.Segments[0].AvgLogProb-want) > 1e-9 {
		t.Errorf("AvgLogProb = %v, want %v", tr.Segments[0].AvgLogProb, want)
	}
}

func TestParseWhisperJSONNoTokens(t *testing.T) {
	data := []byte(`{"transcription": [{"text": " hm", "tokens": []}]}`)

	tr, err := parseWhisperJSON(data)
	if err != nil {
		t.Fatalf("parseWhisperJSON() error: %v", err)
	}
	if got := tr.Segments[0].AvgLogProb; got != 0 {
		t.Errorf("AvgLogProb = %v, want 0 for tokenless segment", got)
	}
}

func TestParseWhisperJSONInvalid(t *testing.T) {
	if _, err := parseWhisperJSON([]byte("not json")); err == nil {
		t.Error("parseWhisperJSON() should fail on malformed input")
	}
}

func TestWhisperArgs(t *testing.T) {
	base := WhisperConfig{
		Binary:    "whisper-cli",
		ModelDir:  "models",
		ModelSize: "base",
		Language:  "en",
		BeamSize:  5,
	}

	t.Run("cpu_disables_gpu", func(t *testing.T) {
		cfg := base
		cfg.Device = "cpu"
		w := &Whisper{config: cfg, binary: "whisper-cli", modelPath: "models/ggml-base.bin"}

		args := w.args("clip.wav", "/tmp/out")
		if !hasArg(args, "-ng") {
			t.Errorf("args = %v, want -ng for cpu device", args)
		}
		if args[len(args)-1] != "clip.wav" {
			t.Errorf("last arg = %q, want the audio path", args[len(args)-1])
		}
	})

	t.Run("cuda_keeps_gpu", func(t *testing.T) {
		cfg := base
		cfg.Device = "cuda"
		w := &Whisper{config: cfg, binary: "whisper-cli", modelPath: "models/ggml-base.bin"}

		if args := w.args("clip.wav", "/tmp/out"); hasArg(args, "-ng") {
			t.Errorf("args = %v, -ng must not be passed for cuda", args)
		}
	})

	t.Run("threads_optional", func(t *testing.T) {
		cfg := base
		cfg.Device = "cpu"
		w := &Whisper{config: cfg, binary: "whisper-cli", modelPath: "models/ggml-base.bin"}
		if args := w.args("clip.wav", "/tmp/out"); hasArg(args, "-t") {
			t.Errorf("args = %v, -t must be omitted when Threads is 0", args)
		}

		cfg.Threads = 4
		w = &Whisper{config: cfg, binary: "whisper-cli", modelPath: "models/ggml-base.bin"}
		if args := w.args("clip.wav", "/tmp/out"); !hasArg(args, "-t") {
			t.Errorf("args = %v, want -t when Threads is set", args)
		}
	})

	t.Run("json_output_requested", func(t *testing.T) {
		cfg := base
		cfg.Device = "cpu"
		w := &Whisper{config: cfg, binary: "whisper-cli", modelPath: "models/ggml-base.bin"}
		args := w.args("clip.wav", "/tmp/out")
		for _, want := range []string{"-ojf", "-of", "-np", "-m", "-l", "-bs"} {
			if !hasArg(args, want) {
				t.Errorf("args = %v, missing %s", args, want)
			}
		}
	})
}

func TestNewWhisperMissingModel(t *testing.T) {
	cfg := DefaultWhisperConfig()
	cfg.Binary = "sh" // something guaranteed to be on PATH
	cfg.ModelDir = t.TempDir()

	if _, err := NewWhisper(cfg); err == nil {
		t.Error("NewWhisper() should fail when the model file is missing")
	}
}

func TestNewWhisperBadModelSize(t *testing.T) {
	cfg := DefaultWhisperConfig()
	cfg.ModelSize = "enormous"

	if _, err := NewWhisper(cfg); err == nil {
		t.Error("NewWhisper() should reject an unknown model size")
	}
}

func TestNewWhisperMissingBinary(t *testing.T) {
	cfg := DefaultWhisperConfig()
	cfg.Binary = "definitely-not-a-real-binary-name"

	if _, err := NewWhisper(cfg); err == nil {
		t.Error("NewWhisper() should fail when the binary is not on PATH")
	}
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single_line", "error: model load failed", "error: model load failed"},
		{"multiline", "info: loading\nerror: bad file\n", "error: bad file"},
		{"trailing_blank_lines", "something\n\n\n", "something"},
		{"empty", "", "no error output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastLine(tt.in); got != tt.want {
				t.Errorf("lastLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}
