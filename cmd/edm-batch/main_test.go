package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-edm/arrange"
	"github.com/cwbudde/algo-edm/descriptor"
	"github.com/cwbudde/algo-edm/internal/wavio"
)

func TestUniqueNamesSuffixesRepeats(t *testing.T) {
	recs := []descriptor.Record{
		{TrackName: "Song", Artist: "A"},
		{TrackName: "Song", Artist: "A"},
		{TrackName: "Other"},
		{TrackName: "Song", Artist: "A"},
	}
	got := uniqueNames(recs)
	want := []string{"A_Song_edm_remix.wav", "A_Song_edm_remix_2.wav", "Other_edm_remix.wav", "A_Song_edm_remix_3.wav"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("name %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRenderBatchWritesFilesAndReportsErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("renders full arrangements")
	}
	dir := t.TempDir()
	bad := "lead_voice_that_does_not_exist"
	recs := []descriptor.Record{
		{TrackName: "one"},
		{TrackName: "two", Render: &descriptor.RenderSettings{LeadVoice: bad}},
	}
	base := arrange.DefaultOptions()
	base.SampleRate = 8000
	results := renderBatch(recs, batchConfig{outDir: dir, workers: 2, base: base})

	if results[0].Err != nil {
		t.Fatalf("first record failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Fatalf("expected invalid lead voice to fail")
	}
	samples, sr, err := wavio.ReadMono(filepath.Join(dir, "one_edm_remix.wav"))
	if err != nil {
		t.Fatalf("ReadMono: %v", err)
	}
	if sr != 8000 || len(samples) == 0 {
		t.Fatalf("unexpected output: sr=%d len=%d", sr, len(samples))
	}
	if _, err := os.Stat(filepath.Join(dir, "two_edm_remix.wav")); err == nil {
		t.Fatalf("failed record should not produce a file")
	}

	again := renderBatch(recs[:1], batchConfig{outDir: dir, workers: 1, base: base})
	if again[0].Err == nil {
		t.Fatalf("expected existing file to be kept without -overwrite")
	}
}
