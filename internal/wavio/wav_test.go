package wavio

import (
	"math"
	"path/filepath"
	"testing"
)

func TestWriteReadMonoRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "tone.wav")
	const sr = 22050
	in := make([]float64, sr/10)
	for i := range in {
		in[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/sr)
	}
	if err := WriteMono(path, in, sr); err != nil {
		t.Fatalf("WriteMono: %v", err)
	}
	got, rate, err := ReadMono(path)
	if err != nil {
		t.Fatalf("ReadMono: %v", err)
	}
	if rate != sr {
		t.Fatalf("rate = %d, want %d", rate, sr)
	}
	if len(got) != len(in) {
		t.Fatalf("len = %d, want %d", len(got), len(in))
	}
	for i := range in {
		if math.Abs(got[i]-in[i]) > 2.0/32768 {
			t.Fatalf("sample %d = %f, want %f", i, got[i], in[i])
		}
	}
}

func TestWriteStereoIsAveragedOnRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "st.wav")
	in := []float64{0.5, -0.5, 0.25, 0.25, 1, 1}
	if err := WriteStereo(path, in, 8000); err != nil {
		t.Fatalf("WriteStereo: %v", err)
	}
	got, _, err := ReadMono(path)
	if err != nil {
		t.Fatalf("ReadMono: %v", err)
	}
	want := StereoToMono(in)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 2.0/32768 {
			t.Fatalf("frame %d = %f, want %f", i, got[i], want[i])
		}
	}
	if err := WriteStereo(path, []float64{1}, 8000); err == nil {
		t.Fatalf("expected error for odd interleaved length")
	}
}

func TestReadMonoMissingFile(t *testing.T) {
	if _, _, err := ReadMono(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestResampleSameRateIsIdentity(t *testing.T) {
	in := []float64{1, 2, 3}
	out, err := Resample(in, 44100, 44100)
	if err != nil || &out[0] != &in[0] {
		t.Fatalf("same-rate resample should return input unchanged")
	}
	if _, err := Resample(in, 0, 44100); err == nil {
		t.Fatalf("expected error for zero rate")
	}
}

func TestParseWorkers(t *testing.T) {
	if n, err := ParseWorkers("auto"); err != nil || n != 0 {
		t.Fatalf("auto = %d, %v", n, err)
	}
	if n, err := ParseWorkers(" 4 "); err != nil || n != 4 {
		t.Fatalf("4 = %d, %v", n, err)
	}
	for _, bad := range []string{"", "0", "x"} {
		if _, err := ParseWorkers(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestRMS(t *testing.T) {
	if RMS(nil) != 0 {
		t.Fatalf("RMS(nil) != 0")
	}
	if got := RMS([]float64{1, -1, 1, -1}); got != 1 {
		t.Fatalf("RMS = %f, want 1", got)
	}
}
