package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfield/exotriage/internal/contracts"
)

const validProfileYAML = `
meta:
  profile_id: test_profile
  version: "2"
thresholds:
  esi: 0.85
  signal: 0.55
  habitability: 0.65
pipeline:
  parallelism: 4
  debounce_ms: 100
  audit_schedule: ""
`

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), p)
	assert.Equal(t, contracts.DefaultThresholds(), p.Thresholds)
	require.NoError(t, Validate(p))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/profile.yaml")
	assert.Error(t, err)
}

func TestParse_ValidProfile(t *testing.T) {
	p, err := Parse([]byte(validProfileYAML))
	require.NoError(t, err)

	assert.Equal(t, "test_profile", p.Meta.ProfileID)
	assert.Equal(t, 0.85, p.Thresholds.ESI)
	assert.Equal(t, 4, p.Pipeline.Parallelism)
	assert.Equal(t, 100, p.Pipeline.DebounceMS)
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := Parse([]byte(validProfileYAML + "\nextra_section:\n  key: value\n"))
	assert.Error(t, err)
}

func TestParse_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			"missing profile id",
			"meta:\n  version: \"1\"\nthresholds:\n  esi: 0.8\n  signal: 0.5\n  habitability: 0.6\npipeline:\n  parallelism: 4\n",
		},
		{
			"threshold out of range",
			"meta:\n  profile_id: p\n  version: \"1\"\nthresholds:\n  esi: 1.5\n  signal: 0.5\n  habitability: 0.6\npipeline:\n  parallelism: 4\n",
		},
		{
			"zero parallelism",
			"meta:\n  profile_id: p\n  version: \"1\"\nthresholds:\n  esi: 0.8\n  signal: 0.5\n  habitability: 0.6\npipeline:\n  parallelism: 0\n",
		},
		{
			"debounce too large",
			"meta:\n  profile_id: p\n  version: \"1\"\nthresholds:\n  esi: 0.8\n  signal: 0.5\n  habitability: 0.6\npipeline:\n  parallelism: 4\n  debounce_ms: 10000\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestHash_Stability(t *testing.T) {
	h1, err := Hash(Default())
	require.NoError(t, err)
	h2, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	changed := Default()
	changed.Thresholds.ESI = 0.9
	h3, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
