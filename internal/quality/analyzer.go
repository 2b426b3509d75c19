// Package quality implements signal-level quality screening of generated
// letter clips: amplitude metrics, defect classification and a composite
// 0-100 score.
package quality

import (
	"math"

	"github.com/alphaset/lettercheck/internal/audio"
	"github.com/alphaset/lettercheck/internal/dataset"
)

// Issue tags attached to clips that fail a threshold check.
const (
	IssueClipping     = "clipping"
	IssueTooQuiet     = "too_quiet"
	IssueTooShort     = "too_short"
	IssueTooLong      = "too_long"
	IssueMostlySilent = "mostly_silent"
)

// Thresholds carries the defect classification constants. The values were
// tuned empirically for ~1s single-letter utterances and are not derived from
// first principles; re-validate them before applying to other corpora.
type Thresholds struct {
	MinDuration      float64 // seconds; shorter clips are too_short
	MaxDuration      float64 // seconds; longer clips are too_long
	IdealDuration    float64 // seconds; score penalty scales with deviation
	MinRMS           float64 // below this the clip is too_quiet
	ClippingPeak     float64 // peak at or above this counts as clipping
	SilenceAmplitude float64 // |sample| below this counts as silence
	SilenceRatio     float64 // silent fraction above this is mostly_silent
}

// DefaultThresholds returns the tuned constants for the letter corpus.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinDuration:      0.3,
		MaxDuration:      3.0,
		IdealDuration:    1.0,
		MinRMS:           0.01,
		ClippingPeak:     0.99,
		SilenceAmplitude: 0.001,
		SilenceRatio:     0.7,
	}
}

// Result is the quality record for a single clip. Created once per scan and
// never mutated afterwards.
type Result struct {
	FilePath     string `json:"file_path"`
	RelativePath string `json:"relative_path"`
	Letter       string `json:"letter"`
	Engine       string `json:"engine"`
	Variant      string `json:"variant"`

	// Audio properties
	DurationSec float64 `json:"duration_sec"`
	SampleRate  int     `json:"sample_rate"`
	Channels    int     `json:"channels"`
	BitDepth    int     `json:"bit_depth"`

	// Quality metrics
	RMSLevel   float64 `json:"rms_level"`
	PeakLevel  float64 `json:"peak_level"`
	IsClipping bool    `json:"is_clipping"`
	IsTooQuiet bool    `json:"is_too_quiet"`
	HasSilence bool    `json:"has_silence"`

	QualityScore float64  `json:"quality_score"`
	Issues       []string `json:"issues"`
}

// Clean reports whether the clip passed every threshold check.
func (r *Result) Clean() bool {
	return len(r.Issues) == 0
}

// Analyzer scores clips against a fixed set of thresholds. Construct with
// NewAnalyzer; thresholds are immutable afterwards so concurrent use is safe.
type Analyzer struct {
	thresholds Thresholds
	baseDir    string // base for relative paths in results
}

// NewAnalyzer creates an analyzer. baseDir anchors the relative paths
// reported per clip; pass the parent of the scan root.
func NewAnalyzer(baseDir string, t Thresholds) *Analyzer {
	return &Analyzer{thresholds: t, baseDir: baseDir}
}

// Check decodes one clip and produces its quality record. Decode failures are
// returned to the caller, which logs and skips the file; they never abort a
// batch.
func (a *Analyzer) Check(path string) (*Result, error) {
	clip, err := audio.Decode(path)
	if err != nil {
		return nil, err
	}
	return a.evaluate(clip, path), nil
}

// evaluate computes metrics and classifies defects for an already decoded
// clip.
func (a *Analyzer) evaluate(clip *audio.Clip, path string) *Result {
	t := a.thresholds
	name := dataset.ParseClipName(path)

	duration := clip.Meta.Duration
	rms := rmsLevel(clip.Samples)
	peak := peakLevel(clip.Samples)

	var issues []string

	isClipping := peak >= t.ClippingPeak
	if isClipping {
		issues = append(issues, IssueClipping)
	}

	isTooQuiet := rms < t.MinRMS
	if isTooQuiet {
		issues = append(issues, IssueTooQuiet)
	}

	// Duration defects are mutually exclusive
	if duration < t.MinDuration {
		issues = append(issues, IssueTooShort)
	} else if duration > t.MaxDuration {
		issues = append(issues, IssueTooLong)
	}

	hasSilence := silenceRatio(clip.Samples, t.SilenceAmplitude) > t.SilenceRatio
	if hasSilence {
		issues = append(issues, IssueMostlySilent)
	}

	// Composite score: -15 per issue, linear penalty for deviating from the
	// ideal duration, clamped to [0,100]
	score := 100.0
	score -= float64(len(issues)) * 15.0
	score -= math.Abs(duration-t.IdealDuration) * 10.0
	score = math.Max(0, math.Min(100, score))

	if issues == nil {
		issues = []string{}
	}

	return &Result{
		FilePath:     path,
		RelativePath: dataset.RelPath(a.baseDir, path),
		Letter:       name.Letter,
		Engine:       name.Engine,
		Variant:      name.Variant,
		DurationSec:  roundTo(duration, 3),
		SampleRate:   clip.Meta.SampleRate,
		Channels:     clip.Meta.Channels,
		BitDepth:     clip.Meta.BitDepth,
		RMSLevel:     roundTo(rms, 4),
		PeakLevel:    roundTo(peak, 4),
		IsClipping:   isClipping,
		IsTooQuiet:   isTooQuiet,
		HasSilence:   hasSilence,
		QualityScore: roundTo(score, 2),
		Issues:       issues,
	}
}

// rmsLevel is the root-mean-square amplitude, a loudness proxy.
func rmsLevel(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// peakLevel is the maximum absolute amplitude, a clipping proxy.
func peakLevel(samples []float64) float64 {
	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}

// silenceRatio is the fraction of samples below the silence amplitude.
func silenceRatio(samples []float64, threshold float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	silent := 0
	for _, s := range samples {
		if math.Abs(s) < threshold {
			silent++
		}
	}
	return float64(silent) / float64(len(samples))
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
