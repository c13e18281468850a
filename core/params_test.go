package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameters_Validate(t *testing.T) {
	p := surgicalParams()
	assert.NoError(t, p.Validate())

	p.BaselineCapacityPerPeriod = 0
	assert.ErrorIs(t, p.Validate(), ErrInvalidParameter)

	p = surgicalParams()
	p.InterventionCapacityPerPeriod = -1
	assert.ErrorIs(t, p.Validate(), ErrInvalidParameter)
}

func TestIntervention_Resolve(t *testing.T) {
	v, err := Intervention{Mode: Additional, Value: 2}.Resolve(12)
	require.NoError(t, err)
	assert.Equal(t, 14.0, v)

	v, err = Intervention{Mode: Absolute, Value: 20}.Resolve(12)
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)

	_, err = Intervention{Mode: "double", Value: 2}.Resolve(12)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Intervention{Mode: Additional, Value: -1}.Resolve(12)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestParameters_WithIntervention(t *testing.T) {
	p := surgicalParams()
	q, err := p.WithIntervention(Intervention{Mode: Additional, Value: 4})
	require.NoError(t, err)
	assert.Equal(t, 16.0, q.InterventionCapacityPerPeriod)
	assert.Equal(t, 14.0, p.InterventionCapacityPerPeriod, "original record is unchanged")
}

func TestParameters_LabelsAndSummary(t *testing.T) {
	p := surgicalParams()
	b, i := p.ScenarioLabels()
	assert.Equal(t, "Baseline (12/week)", b)
	assert.Equal(t, "Intervention (14/week)", i)
	assert.Equal(t, "λ15 · 12→14/wk · 26 wk", p.Summary())

	p.Granularity = Hourly
	p.BaselineLabel = "Current staffing"
	b, _ = p.ScenarioLabels()
	assert.Equal(t, "Current staffing", b)
	assert.Equal(t, "λ15 · 12→14/h · 26 h", p.Summary())
}

func TestParseGranularity(t *testing.T) {
	for in, want := range map[string]Granularity{"": Weekly, "weekly": Weekly, "H": Hourly, "hourly": Hourly} {
		g, err := ParseGranularity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, g)
	}
	_, err := ParseGranularity("monthly")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "12", FormatQuantity(12))
	assert.Equal(t, "12.5", FormatQuantity(12.5))
	assert.Equal(t, "0.33", FormatQuantity(1.0/3))
}
