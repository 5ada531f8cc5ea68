package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidsflow/internal/domain"
)

func TestClassifyAge_EveryAgeInDomainHasExactlyOneGroup(t *testing.T) {
	for age := 6; age <= 18; age++ {
		matches := 0
		for _, g := range AgeGroups() {
			if g.Contains(age) {
				matches++
			}
		}
		require.Equalf(t, 1, matches, "age %d matched %d groups", age, matches)

		g, ok := ClassifyAge(age)
		require.Truef(t, ok, "age %d should classify", age)
		assert.LessOrEqual(t, g.MinAge, age)
		assert.GreaterOrEqual(t, g.MaxAge, age)
	}
}

func TestClassifyAge_OutsideDomain(t *testing.T) {
	for _, age := range []int{-1, 0, 5, 19, 42} {
		_, ok := ClassifyAge(age)
		assert.Falsef(t, ok, "age %d should not classify", age)
	}
}

func TestParseAgeDescription(t *testing.T) {
	cases := []struct {
		in   string
		want domain.AgeGroupID
		ok   bool
	}{
		{"9 years old", domain.AgeGroup9To12, true},
		{"she is 14", domain.AgeGroup13To15, true},
		{"6", domain.AgeGroup6To8, true},
		{"ages 16 to 17", domain.AgeGroup16To18, true},
		{"4 years", "", false},
		{"twelve", "", false},
		{"", "", false},
		{"99999999999999999999999", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			g, ok := ParseAgeDescription(tc.in)
			require.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, g.ID)
		})
	}
}

func TestAgeLabels_RoundTrip(t *testing.T) {
	label, ok := AgeLabel(9)
	require.True(t, ok)
	assert.Equal(t, "9-12 years", label)

	value, ok := AgeValueFromLabel("13-15 years")
	require.True(t, ok)
	assert.Equal(t, 13, value)

	_, ok = AgeLabel(10)
	assert.False(t, ok, "only group minimums are stored values")
	_, ok = AgeValueFromLabel("1-3 years")
	assert.False(t, ok)
}

func TestCatalogInclusionInvariants(t *testing.T) {
	require.NoError(t, Check())

	for _, g := range AgeGroups() {
		available := map[domain.ModeID]bool{}
		for _, m := range AvailableModes(g.ID) {
			available[m.ID] = true
		}
		recommended := map[domain.ModeID]bool{}
		for _, m := range RecommendedModes(g.ID) {
			recommended[m.ID] = true
			assert.Truef(t, available[m.ID], "%s recommended but unavailable for %s", m.ID, g.ID)
		}
		for _, id := range AutoSelectedModes(g.ID) {
			assert.Truef(t, recommended[id], "%s auto-selected but not recommended for %s", id, g.ID)
		}

		features := map[string]bool{}
		for _, f := range AvailableFeatures(g.ID) {
			features[f.ID] = true
		}
		for _, f := range RecommendedFeatures(g.ID) {
			assert.Truef(t, features[f.ID], "%s recommended but unavailable for %s", f.ID, g.ID)
		}
	}
}

func TestAutoSelectedModes_ProgressionByAge(t *testing.T) {
	assert.Equal(t, []domain.ModeID{domain.ModeVoiceInput, domain.ModePromptButtons}, AutoSelectedModesForAge(7))
	assert.Equal(t, []domain.ModeID{domain.ModeVoiceInput, domain.ModeTextInput, domain.ModePromptButtons}, AutoSelectedModesForAge(10))
	assert.Equal(t, domain.AllModeIDs(), AutoSelectedModesForAge(14))
	assert.Empty(t, AutoSelectedModesForAge(3))
}

func TestFeaturesForAge(t *testing.T) {
	assert.Empty(t, AvailableFeaturesForAge(7))
	require.Len(t, AvailableFeaturesForAge(10), 1)
	assert.Equal(t, FeatureSchoolAssignment, RecommendedFeaturesForAge(17)[0].ID)
	assert.Empty(t, RecommendedFeaturesForAge(30))
}

func TestValidateFeaturesForAge(t *testing.T) {
	res := ValidateFeaturesForAge([]string{FeatureSchoolAssignment}, 10)
	assert.True(t, res.Valid)
	assert.Empty(t, res.InvalidIDs)

	res = ValidateFeaturesForAge([]string{FeatureSchoolAssignment, "web_browsing"}, 7)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{FeatureSchoolAssignment, "web_browsing"}, res.InvalidIDs)

	res = ValidateFeaturesForAge([]string{}, 7)
	assert.True(t, res.Valid)
}

func TestValidateModesForAge(t *testing.T) {
	res := ValidateModesForAge([]domain.ModeID{domain.ModeTextInput, "telepathy"}, 9)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"telepathy"}, res.InvalidIDs)

	// Edad fuera de rango: todo es inválido.
	res = ValidateModesForAge(domain.AllModeIDs(), 25)
	assert.False(t, res.Valid)
	assert.Len(t, res.InvalidIDs, len(domain.AllModeIDs()))
}

func TestValidate_DisjointSelectionIsExactlyInvalid(t *testing.T) {
	for age := 4; age <= 20; age++ {
		available := map[string]bool{}
		for _, f := range AvailableFeaturesForAge(age) {
			available[f.ID] = true
		}
		var disjoint []string
		for _, f := range ChildFeatures() {
			if !available[f.ID] {
				disjoint = append(disjoint, f.ID)
			}
		}
		disjoint = append(disjoint, "unknown_feature")

		res := ValidateFeaturesForAge(disjoint, age)
		assert.False(t, res.Valid)
		assert.Equal(t, disjoint, res.InvalidIDs)
	}
}

func TestLookups(t *testing.T) {
	m, ok := ModeByID(domain.ModePhotoUpload)
	require.True(t, ok)
	assert.Equal(t, "Photo Upload", m.Name)

	f, ok := FeatureByID(FeatureSchoolAssignment)
	require.True(t, ok)
	c, ok := f.Capability("academic_help")
	require.True(t, ok)
	assert.True(t, c.Enabled)

	_, ok = FeatureByID("nope")
	assert.False(t, ok)
}
