package detection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageOutcome_MarshalShapes(t *testing.T) {
	t.Parallel()

	t.Run("completed renders the result object", func(t *testing.T) {
		t.Parallel()
		outcome := Completed(AudioResult{
			TopClasses:           []ClassScore{{Label: "Bird", Confidence: 0.42}},
			AnimalSoundsDetected: true,
			AnimalSounds:         []ClassScore{{Label: "Bird", Confidence: 0.42}},
		})

		data, err := json.Marshal(outcome)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"top_classes": [{"class": "Bird", "confidence": 0.42}],
			"animal_sounds_detected": true,
			"animal_sounds": [{"class": "Bird", "confidence": 0.42}]
		}`, string(data))
	})

	t.Run("skipped renders the marker", func(t *testing.T) {
		t.Parallel()
		outcome := Skipped[AnomalyResult]("not invasive, no coordinates")

		data, err := json.Marshal(outcome)
		require.NoError(t, err)
		assert.JSONEq(t, `{"skipped": true, "reason": "not invasive, no coordinates"}`, string(data))
	})

	t.Run("failed renders the error record", func(t *testing.T) {
		t.Parallel()
		outcome := Failed[KingdomResult]("Image not found: field.jpg")

		data, err := json.Marshal(outcome)
		require.NoError(t, err)
		assert.JSONEq(t, `{"error": "Image not found: field.jpg"}`, string(data))
	})
}

func TestStageOutcome_RoundTrip(t *testing.T) {
	t.Parallel()

	original := Completed(AnomalyResult{
		IsAnomaly:    true,
		AnomalyType:  AnomalyVegetationLoss,
		LatestDate:   "2026-08-01",
		Observations: 7,
	})

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored StageOutcome[AnomalyResult]
	require.NoError(t, json.Unmarshal(data, &restored))

	require.True(t, restored.IsCompleted())
	assert.Equal(t, *original.Result, *restored.Result)

	var skipped StageOutcome[AnomalyResult]
	require.NoError(t, json.Unmarshal([]byte(`{"skipped":true,"reason":"no audio file"}`), &skipped))
	assert.Equal(t, StageSkipped, skipped.Status)
	assert.Equal(t, "no audio file", skipped.Reason)

	var failed StageOutcome[AnomalyResult]
	require.NoError(t, json.Unmarshal([]byte(`{"error":"timeout"}`), &failed))
	assert.Equal(t, StageFailed, failed.Status)
	assert.Equal(t, "timeout", failed.Err)
}

func TestStageOutcome_Value(t *testing.T) {
	t.Parallel()

	completed := Completed(KingdomResult{Kingdom: KingdomAnimal})
	result, ok := completed.Value()
	require.True(t, ok)
	assert.Equal(t, KingdomAnimal, result.Kingdom)

	_, ok = Skipped[KingdomResult]("gate not met").Value()
	assert.False(t, ok)

	_, ok = Failed[KingdomResult]("boom").Value()
	assert.False(t, ok)
}
