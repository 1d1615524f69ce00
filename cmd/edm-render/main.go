// Command edm-render renders a 16-bar EDM track from musical descriptors.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-edm/analysis"
	"github.com/cwbudde/algo-edm/arrange"
	"github.com/cwbudde/algo-edm/descriptor"
	"github.com/cwbudde/algo-edm/internal/wavio"
	"github.com/cwbudde/algo-edm/synth"
)

var keyNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

type renderJob struct {
	desc         arrange.Descriptors
	opts         arrange.Options
	output       string
	stereo       bool
	printPattern bool
}

func parseArgs(args []string) (*renderJob, error) {
	fs := flag.NewFlagSet("edm-render", flag.ContinueOnError)
	descriptorPath := fs.String("descriptor", "", "Descriptor JSON file (flags below override its values)")
	tempo := fs.Float64("tempo", 128, "Source tempo in BPM (forced into 130-180)")
	key := fs.Int("key", 0, "Pitch class 0-11 (0 = C)")
	mode := fs.Int("mode", 1, "1 = major, 0 = minor")
	energy := fs.Float64("energy", 0.8, "Energy 0-1")
	danceability := fs.Float64("danceability", 0.75, "Danceability 0-1")
	valence := fs.Float64("valence", 0.6, "Valence 0-1")
	track := fs.String("track", "", "Track name (also the default seed)")
	artist := fs.String("artist", "", "Artist name")
	seed := fs.Int64("seed", 0, "Generator seed (0 derives one from the track name)")
	seedKey := fs.String("seed-key", "", "String hashed into the generator seed")
	sampleRate := fs.Int("sample-rate", 44100, "Render sample rate in Hz")
	volume := fs.Float64("volume", 0.8, "Master volume in (0,1]")
	bass := fs.String("bass", "saw_bass", "Bass voice: sub_bass|saw_bass|fm_bass")
	lead := fs.String("lead", "supersaw", "Lead voice: supersaw|pluck|arp")
	mastering := fs.String("mastering", "simple", "Mastering chain: simple|bus")
	room := fs.Float64("room", 0, "Room reverb wet level 0-1 for the stereo output (0 = off)")
	stereo := fs.Bool("stereo", false, "Write a two-channel WAV")
	printPattern := fs.Bool("print-pattern", false, "Print the drum pattern of every section")
	output := fs.String("output", "", "Output WAV path (default: out/<artist>_<track>_edm_remix.wav)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	d := arrange.DefaultDescriptors()
	opts := arrange.DefaultOptions()
	if *descriptorPath != "" {
		rec, err := descriptor.Load(*descriptorPath)
		if err != nil {
			return nil, err
		}
		d = rec.Descriptors()
		if opts, err = rec.Options(opts); err != nil {
			return nil, err
		}
	}

	var ferr error
	fs.Visit(func(f *flag.Flag) {
		if ferr != nil {
			return
		}
		switch f.Name {
		case "tempo":
			d.Tempo = *tempo
		case "key":
			d.Key = *key
		case "mode":
			d.Mode = *mode
		case "energy":
			d.Energy = *energy
		case "danceability":
			d.Danceability = *danceability
		case "valence":
			d.Valence = *valence
		case "track":
			d.TrackName = *track
		case "artist":
			d.Artist = *artist
		case "seed":
			opts.Seed = *seed
		case "seed-key":
			opts.SeedKey = *seedKey
		case "sample-rate":
			opts.SampleRate = *sampleRate
		case "volume":
			if !(*volume > 0) || *volume > 1 {
				ferr = fmt.Errorf("-volume must be in (0,1]")
				return
			}
			opts.MasterVolume = *volume
		case "room":
			if *room < 0 || *room > 1 {
				ferr = fmt.Errorf("-room must be in [0,1]")
				return
			}
			opts.Room = *room
		case "bass":
			v, err := synth.ParseVoice(*bass)
			if err != nil || !v.IsBass() {
				ferr = fmt.Errorf("-bass %q is not a bass voice", *bass)
				return
			}
			opts.BassVoice = v
		case "lead":
			v, err := synth.ParseVoice(*lead)
			if err != nil || !v.IsLead() {
				ferr = fmt.Errorf("-lead %q is not a lead voice", *lead)
				return
			}
			opts.LeadVoice = v
		case "mastering":
			m, err := arrange.ParseMastering(*mastering)
			if err != nil {
				ferr = err
				return
			}
			opts.Mastering = m
		}
	})
	if ferr != nil {
		return nil, ferr
	}
	if opts.SampleRate < 8000 {
		return nil, fmt.Errorf("sample rate must be >= 8000")
	}

	d = d.Sanitized()
	out := *output
	if out == "" {
		out = filepath.Join("out", descriptor.OutputName(d))
	}
	return &renderJob{desc: d, opts: opts, output: out, stereo: *stereo || opts.Room > 0, printPattern: *printPattern}, nil
}

func main() {
	job, err := parseArgs(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	d := job.desc
	modeName := "minor"
	if d.Mode == 1 {
		modeName = "major"
	}
	fmt.Printf("Rendering %q: %.1f BPM source, %s %s, energy %.2f, danceability %.2f, valence %.2f (%s mastering)\n",
		d.TrackName, d.Tempo, keyNames[d.Key], modeName, d.Energy, d.Danceability, d.Valence, job.opts.Mastering)

	t := arrange.Render(d, job.opts)
	arr := t.Arrangement

	if job.printPattern {
		for _, s := range arr.Drums {
			fmt.Printf("[%s x%d]\n%s\n", s.Kind, s.Bars, s.Pattern)
		}
	}

	if job.stereo {
		err = wavio.WriteStereo(job.output, t.Stereo(), t.SampleRate)
	} else {
		err = wavio.WriteMono(job.output, t.Samples, t.SampleRate)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", job.output, err)
		os.Exit(1)
	}

	stats := analysis.Measure(t.Samples, t.SampleRate)
	bars := make([]int, len(arr.Sections))
	for i, s := range arr.Sections {
		bars[i] = s.Bars
	}
	barSec := 240.0 / t.Tempo
	levels := analysis.SectionRMS(t.Samples, t.SampleRate, barSec, bars)

	fmt.Printf("Tempo %.1f BPM, %d bars, seed %d\n", t.Tempo, t.Bars, t.Seed)
	for i, s := range arr.Sections {
		fmt.Printf("  %-6s bars %2d-%2d  rms %.3f\n", s.Kind, s.StartBar+1, s.StartBar+s.Bars, levels[i])
	}
	fmt.Printf("Peak %.3f (%.1f dBFS), RMS %.1f dBFS, crest %.1f dB\n", stats.Peak, stats.PeakDB, stats.RMSDB, stats.CrestDB)
	fmt.Printf("Wrote %s (%.2fs, %d Hz)\n", job.output, t.Duration(), t.SampleRate)
}
