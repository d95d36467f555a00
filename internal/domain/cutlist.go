package domain

import (
	"fmt"
	"math"
	"sort"
)

// CutItem is one line of the fabrication cut list
type CutItem struct {
	Part          string   `json:"part" yaml:"part"`
	Kind          TubeKind `json:"kind" yaml:"kind"`
	Quantity      int      `json:"quantity" yaml:"quantity"`
	Length        float64  `json:"length" yaml:"length"`
	OuterDiameter float64  `json:"outer_diameter" yaml:"outer_diameter"`
	WallMin       float64  `json:"wall_min" yaml:"wall_min"`
	WallMax       float64  `json:"wall_max" yaml:"wall_max"`
	IDs           []string `json:"ids" yaml:"ids"`
}

var kindOrder = map[TubeKind]int{
	TubeKindVertical:   0,
	TubeKindHorizontal: 1,
	TubeKindBrace:      2,
	TubeKindSupport:    3,
}

var kindParts = map[TubeKind]string{
	TubeKindVertical:   "Vertical tube",
	TubeKindHorizontal: "Horizontal rail",
	TubeKindBrace:      "Corner brace",
	TubeKindSupport:    "Support bar",
}

// CutList groups the frame's tubes by kind, diameter and cut length
// (rounded to 1/1000 in).
func CutList(f *FrameAssembly) []CutItem {
	type key struct {
		kind   TubeKind
		od     float64
		length float64
	}

	index := make(map[key]int)
	var items []CutItem
	for _, t := range f.Tubes() {
		k := key{kind: t.Kind, od: t.OuterDiameter, length: math.Round(t.Length()*1000) / 1000}
		if i, ok := index[k]; ok {
			items[i].Quantity++
			items[i].IDs = append(items[i].IDs, t.ID)
			continue
		}
		index[k] = len(items)
		items = append(items, CutItem{
			Part:          kindParts[t.Kind],
			Kind:          t.Kind,
			Quantity:      1,
			Length:        k.length,
			OuterDiameter: t.OuterDiameter,
			WallMin:       t.WallMin,
			WallMax:       t.WallMax,
			IDs:           []string{t.ID},
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Kind != items[j].Kind {
			return kindOrder[items[i].Kind] < kindOrder[items[j].Kind]
		}
		return items[i].Length > items[j].Length
	})
	return items
}

// FabricationNotes returns the dimensional notes carried on drawings and sheets
func FabricationNotes(s FrameSpec) []string {
	notes := []string{
		"Material: 316 stainless steel",
		fmt.Sprintf("Main tube OD: %.3f\", wall %.3f\"-%.3f\"", s.TubeDiameter, s.WallMin, s.WallMax),
		fmt.Sprintf("Vertical height: %.3f\"", s.TubeHeight),
		fmt.Sprintf("Tube separation (center to center): %.3f\"", s.TubeSeparation),
		fmt.Sprintf("Bottom rail height: %.3f\"", s.BottomTubeOffset),
		fmt.Sprintf("Corner braces: %.3f\" at %g deg, %.3f\" OD (%d total)", s.BraceLength, StandardBraceAngle, s.BraceDiameter, s.BraceCount),
		"Bottom braces positioned above bottom rail",
		"Top braces positioned below top rail",
		fmt.Sprintf("Split rings at %.3f\" height, %.3f\"-%.3f\" radius", s.RingHeight, s.RingInnerRadius, s.RingOuterRadius),
		fmt.Sprintf("Boat cleat %.3f\" centered on top rail", s.CleatLength),
	}
	if s.SupportBarCount > 0 {
		notes = append(notes, fmt.Sprintf("Support bars: %d @ %.3f\" at %g deg, %.3f\" x %.3f\" base plates",
			s.SupportBarCount, s.SupportBarLength, s.SupportBarAngle, s.PlateWidth, s.PlateHeight))
	}
	notes = append(notes,
		"All joints to be welded",
		"All dimensions in inches unless noted",
	)
	return notes
}
