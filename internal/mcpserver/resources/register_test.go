package resources

import (
	"testing"

	"ladder-mcp/internal/scheduler"
)

func TestWeightsCoverBothModes(t *testing.T) {
	w := Weights()
	if len(w) != 2 {
		t.Fatalf("expected 2 modes, got %d", len(w))
	}
	if !w[scheduler.ModeCompetitive].SquaredSkill || w[scheduler.ModeSocial].SquaredSkill {
		t.Fatalf("unexpected skill shape %+v", w)
	}
}
