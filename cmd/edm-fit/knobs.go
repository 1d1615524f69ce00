package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-edm/arrange"
)

type knobDef struct {
	Name  string
	Min   float64
	Max   float64
	IsInt bool
}

type candidate struct {
	Vals []float64
}

// parseOptimizeGroups parses a comma-separated string of group names.
// Valid groups: mood, tempo, key, mix.
func parseOptimizeGroups(raw string) (map[string]bool, error) {
	valid := map[string]bool{"mood": true, "tempo": true, "key": true, "mix": true}
	groups := make(map[string]bool)
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !valid[s] {
			return nil, fmt.Errorf("unknown optimize group %q (valid: mood, tempo, key, mix)", s)
		}
		groups[s] = true
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no optimize groups specified")
	}
	return groups, nil
}

func initCandidate(base arrange.Descriptors, opts arrange.Options, groups map[string]bool) ([]knobDef, candidate) {
	defs := make([]knobDef, 0, 8)
	vals := make([]float64, 0, 8)
	addKnob := func(def knobDef, val float64) {
		defs = append(defs, def)
		vals = append(vals, val)
	}

	if groups["mood"] {
		addKnob(knobDef{Name: "energy", Min: 0, Max: 1}, base.Energy)
		addKnob(knobDef{Name: "danceability", Min: 0, Max: 1}, base.Danceability)
		addKnob(knobDef{Name: "valence", Min: 0, Max: 1}, base.Valence)
	}
	if groups["tempo"] {
		addKnob(knobDef{Name: "tempo", Min: arrange.MinTempo, Max: arrange.MaxTempo}, arrange.ForceTempo(base.Tempo))
	}
	if groups["key"] {
		addKnob(knobDef{Name: "key", Min: 0, Max: 11, IsInt: true}, float64(base.Key))
		addKnob(knobDef{Name: "mode", Min: 0, Max: 1, IsInt: true}, float64(base.Mode))
	}
	if groups["mix"] {
		addKnob(knobDef{Name: "master_volume", Min: 0.3, Max: 1.0}, opts.MasterVolume)
	}

	for i := range vals {
		vals[i] = clamp(vals[i], defs[i].Min, defs[i].Max)
		if defs[i].IsInt {
			vals[i] = math.Round(vals[i])
		}
	}
	return defs, candidate{Vals: vals}
}

func applyCandidate(base arrange.Descriptors, opts arrange.Options, defs []knobDef, c candidate) (arrange.Descriptors, arrange.Options) {
	d := base
	for i, def := range defs {
		v := c.Vals[i]
		switch def.Name {
		case "energy":
			d.Energy = v
		case "danceability":
			d.Danceability = v
		case "valence":
			d.Valence = v
		case "tempo":
			d.Tempo = v
		case "key":
			d.Key = int(math.Round(v))
		case "mode":
			d.Mode = int(math.Round(v))
		case "master_volume":
			opts.MasterVolume = v
		}
	}
	return d.Sanitized(), opts
}

func fromNormalized(pos []float64, defs []knobDef) candidate {
	vals := make([]float64, len(defs))
	for i := range defs {
		x := 0.0
		if i < len(pos) {
			x = clamp(pos[i], 0, 1)
		}
		v := defs[i].Min + x*(defs[i].Max-defs[i].Min)
		if defs[i].IsInt {
			v = math.Round(v)
		}
		vals[i] = v
	}
	return candidate{Vals: vals}
}

func knobMap(defs []knobDef, c candidate) map[string]float64 {
	out := make(map[string]float64, len(defs))
	for i, d := range defs {
		out[d.Name] = c.Vals[i]
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
