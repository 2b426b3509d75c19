package quality

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeSineWAV writes a mono 16-bit WAV sine tone to dir/name and returns
// its path.
func writeSineWAV(t *testing.T, dir, name string, durationSecs, amplitude float64, sampleRate int) string {
	t.Helper()

	total := int(durationSecs * float64(sampleRate))
	samples := make([]int16, total)
	for i := 0; i < total; i++ {
		ts := float64(i) / float64(sampleRate)
		s := amplitude * math.Sin(2.0*math.Pi*440.0*ts)
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		samples[i] = int16(s * float64(math.MaxInt16))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	defer f.Close()

	const numChannels = 1
	const bitsPerSample = 16
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8
	dataSize := len(samples) * 2

	hdr := []any{
		[]byte("RIFF"), uint32(36 + dataSize), []byte("WAVE"),
		[]byte("fmt "), uint32(16), uint16(1), uint16(numChannels),
		uint32(sampleRate), uint32(byteRate), uint16(blockAlign), uint16(bitsPerSample),
		[]byte("data"), uint32(dataSize),
	}
	for _, v := range hdr {
		if err := binary.Write(f, binary.LittleEndian, v); err != nil {
			t.Fatalf("failed to write WAV header: %v", err)
		}
	}
	for _, sample := range samples {
		if err := binary.Write(f, binary.LittleEndian, sample); err != nil {
			t.Fatalf("failed to write WAV data: %v", err)
		}
	}
	return path
}
