package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupProfile(t *testing.T) {
	p, ok := LookupProfile("REPLAN", "SO2")
	assert.True(t, ok)
	assert.Equal(t, 42.0, p.Base)
	assert.Equal(t, "µg/m³", p.Unit)

	// Unknown pairs degrade to the default profile instead of failing
	fallback, ok := LookupProfile("NOWHERE", "XX")
	assert.False(t, ok)
	assert.Equal(t, p, fallback)

	// Known station, unknown parameter still degrades
	_, ok = LookupProfile("CUBATAO", "O3")
	assert.False(t, ok)
}

func TestOverrides(t *testing.T) {
	ovs := Overrides("REPLAN", "SO2")
	require.Len(t, ovs, 3)

	offsets := []int{ovs[0].OffsetMinutes, ovs[1].OffsetMinutes, ovs[2].OffsetMinutes}
	assert.Equal(t, []int{15, 10, 5}, offsets)
	assert.Equal(t, "250.0", ovs[0].Value)
	assert.Equal(t, "180.0", ovs[1].Value)
	assert.Equal(t, "125.0", ovs[2].Value)

	assert.Nil(t, Overrides("CUBATAO", "SO2"))
}

func TestOverrideAlertIDsAreUnique(t *testing.T) {
	seen := map[int]bool{}
	for _, ov := range AllOverrides() {
		assert.False(t, seen[ov.AlertID], "duplicate alert id %d", ov.AlertID)
		seen[ov.AlertID] = true
		assert.NotEmpty(t, ov.Justification)
		assert.NotEmpty(t, ov.Operator)
	}
}

func TestOverrideByAlertID(t *testing.T) {
	ov, ok := OverrideByAlertID(4)
	require.True(t, ok)
	assert.Equal(t, "REVAP", ov.Station)
	assert.Equal(t, "NO2", ov.Parameter)

	_, ok = OverrideByAlertID(99)
	assert.False(t, ok)
}

func TestStationsAndParameters(t *testing.T) {
	assert.Equal(t, []string{"CUBATAO", "RECAP", "REPLAN", "REVAP"}, Stations())
	assert.Equal(t, []string{"CO", "MP10", "NO2", "O3", "SO2"}, Parameters("REPLAN"))
	assert.Equal(t, []string{"MP10", "SO2"}, Parameters("CUBATAO"))
	assert.Empty(t, Parameters("NOWHERE"))
}
