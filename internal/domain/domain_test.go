package domain

import "testing"

func TestChildProfileNormalize_EmptyModesMeansAll(t *testing.T) {
	p := ChildProfile{ID: "c1"}.Normalize()
	if !p.ModesDefaulted {
		t.Fatalf("expected ModesDefaulted")
	}
	if len(p.SelectedInterfaceModes) != len(AllModeIDs()) {
		t.Fatalf("expected all modes, got %v", p.SelectedInterfaceModes)
	}
	if p.SelectedFeatures == nil || len(p.SelectedFeatures) != 0 {
		t.Fatalf("expected empty non-nil features, got %#v", p.SelectedFeatures)
	}
}

func TestChildProfileNormalize_KeepsExplicitModes(t *testing.T) {
	orig := ChildProfile{SelectedInterfaceModes: []ModeID{ModeTextInput}}
	p := orig.Normalize()
	if p.ModesDefaulted || !p.HasMode(ModeTextInput) || p.HasMode(ModeVoiceInput) {
		t.Fatalf("unexpected normalized profile: %+v", p)
	}
	p.SelectedInterfaceModes[0] = ModeVoiceInput
	if orig.SelectedInterfaceModes[0] != ModeTextInput {
		t.Fatalf("normalize must not alias the original slice")
	}
}

func TestUserSettings_SelectedChildID(t *testing.T) {
	s := UserSettings{UI: map[string]any{"theme": "dark"}}
	if _, ok := s.SelectedChildID(); ok {
		t.Fatalf("expected no selection")
	}

	withID := s.WithSelectedChildID("c1")
	if id, ok := withID.SelectedChildID(); !ok || id != "c1" {
		t.Fatalf("unexpected selection %q %v", id, ok)
	}
	if withID.UI["theme"] != "dark" {
		t.Fatalf("other ui keys must be preserved")
	}
	if _, ok := s.UI["selectedChildId"]; ok {
		t.Fatalf("original settings must not be mutated")
	}

	cleared := withID.WithSelectedChildID("")
	if _, ok := cleared.SelectedChildID(); ok {
		t.Fatalf("expected selection cleared")
	}

	bad := UserSettings{UI: map[string]any{"selectedChildId": 42}}
	if _, ok := bad.SelectedChildID(); ok {
		t.Fatalf("non-string pointer must be ignored")
	}
}

func TestProgressBySection(t *testing.T) {
	if !(ProgressBySection{ModerationCompletedCount: 2, ModerationTotal: 2}).Valid() {
		t.Fatalf("expected valid progress")
	}
	if (ProgressBySection{ModerationCompletedCount: 3, ModerationTotal: 2}).Valid() {
		t.Fatalf("completed > total must be invalid")
	}
	if (ProgressBySection{ExitSurveyCompleted: true, ModerationCompletedCount: 1, ModerationTotal: 2, HasChildProfile: true}).Sequential() {
		t.Fatalf("survey before moderation must not be sequential")
	}
}
