package main

import (
	"errors"
	"strings"
	"testing"

	"musclemap/prescription-engine/internal/domain"
)

const sampleCatalog = `
exercises:
  - id: goblet-squat
    name: Goblet Squat
    movement_pattern: squat
    muscles:
      primary:
        - muscle: quads
          activation: 85
      secondary:
        - muscle: glutes
          activation: 60
    biomechanics:
      joint_stress:
        knee: moderate
    performance:
      cns_load: 4
      technical_complexity: 3
    effectiveness:
      by_goal:
        hypertrophy: 8
        strength: 6
    equipment:
      required: [dumbbell]
      home_safe: true
    video_object_key: exercises/goblet-squat/demo.mp4
  - id: push-up
    name: Push-Up
    movement_pattern: horizontal_push
    muscles:
      primary:
        - muscle: chest
          activation: 80
`

func TestParseCatalog(t *testing.T) {
	exercises, err := parseCatalog(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("parseCatalog: %v", err)
	}
	if len(exercises) != 2 {
		t.Fatalf("exercises: want=2 got=%d", len(exercises))
	}
	gs := exercises[0]
	if gs.MovementPattern != domain.PatternSquat {
		t.Fatalf("pattern: want=%s got=%s", domain.PatternSquat, gs.MovementPattern)
	}
	if len(gs.Muscles.Secondary) != 1 || gs.Muscles.Secondary[0].MuscleID != "glutes" {
		t.Fatalf("secondary: got %+v", gs.Muscles.Secondary)
	}
	if got := gs.Effectiveness.ByGoal[domain.GoalHypertrophy]; got != 8 {
		t.Fatalf("hypertrophy rating: want=8 got=%v", got)
	}
	if got := gs.Biomechanics.JointStress["knee"]; got != domain.StressModerate {
		t.Fatalf("knee stress: want=%s got=%s", domain.StressModerate, got)
	}
	if !gs.Equipment.HomeSafe || gs.VideoObjectKey == "" {
		t.Fatalf("equipment/video: got %+v key=%q", gs.Equipment, gs.VideoObjectKey)
	}
}

func TestParseCatalogRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no exercises", "exercises: []\n"},
		{"unknown field", "exercises:\n  - id: x\n    nmae: typo\n"},
		{"not yaml list", "exercises: nope\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseCatalog(strings.NewReader(tc.in)); err == nil {
				t.Fatalf("want error for %q", tc.in)
			}
		})
	}
	if _, err := parseCatalog(strings.NewReader("")); !errors.Is(err, errEmptyCatalog) {
		t.Fatalf("empty: want=%v got=%v", errEmptyCatalog, err)
	}
}
