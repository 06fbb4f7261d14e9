package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinScenarios_AllBuild(t *testing.T) {
	cases := BuiltinScenarios()
	require.NotEmpty(t, cases)
	for _, sc := range cases {
		t.Run(sc.Name, func(t *testing.T) {
			require.NoError(t, sc.Validate())
			s, err := sc.Build()
			require.NoError(t, err)
			assert.Equal(t, len(sc.Replicas), len(s.Replicas))
			assert.Equal(t, sc.Workload.DurationTicks, s.Horizon)
		})
	}
}

func TestScenarioByName(t *testing.T) {
	sc, err := ScenarioByName("base-unequal")
	require.NoError(t, err)
	assert.Equal(t, "base-unequal", sc.Name)
	assert.Equal(t, 2, sc.Coordinator.WriteCL)

	_, err = ScenarioByName("no-such-case")
	assert.Error(t, err)
}

func TestScenarioBuild_IndependentGraphs(t *testing.T) {
	sc, err := ScenarioByName("base-unequal")
	require.NoError(t, err)

	a := sc.MustBuild()
	b := sc.MustBuild()
	require.NotSame(t, a.Coordinator, b.Coordinator)

	a.Clock.Advance()
	a.Replicas[0].Submit(NewWrite(0, 0, len(a.Replicas), 0))
	assert.Equal(t, int64(0), b.Clock.Now())
	assert.Equal(t, 0, b.Replicas[0].BaseBacklog())
}
