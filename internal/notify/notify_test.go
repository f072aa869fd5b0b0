package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-app/skycast/internal/weather"
)

func TestDispatchRecordsOutcomes(t *testing.T) {
	d := NewLogDispatcher()

	alerts := []weather.Alert{
		{Title: "High temperature warning", Body: "Current temperature: 36°C. Stay hydrated!"},
		{Title: "Rain expected", Body: "Carry an umbrella."},
	}
	for _, alert := range alerts {
		require.NoError(t, d.Dispatch(context.Background(), alert))
	}

	outcomes := d.Outcomes()
	require.Len(t, outcomes, 2)
	for i, o := range outcomes {
		assert.Equal(t, alerts[i], o.Alert)
		assert.False(t, o.At.IsZero())
		assert.NoError(t, o.Err)
	}
}

func TestOutcomesReturnsCopy(t *testing.T) {
	d := NewLogDispatcher()
	require.NoError(t, d.Dispatch(context.Background(), weather.Alert{Title: "Rain expected"}))

	first := d.Outcomes()
	first[0].Alert.Title = "mutated"

	second := d.Outcomes()
	assert.Equal(t, "Rain expected", second[0].Alert.Title)
}
