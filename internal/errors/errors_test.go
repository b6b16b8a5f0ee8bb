package errors

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder_Basic(t *testing.T) {
	t.Parallel()

	base := NewStd("satellite provider unreachable")
	ee := New(base).
		Component("satellite").
		Category(CategoryNetwork).
		Context("attempt", 2).
		Build()

	assert.Equal(t, "satellite provider unreachable", ee.Error())
	assert.Equal(t, "satellite", ee.GetComponent())
	assert.Equal(t, string(CategoryNetwork), ee.GetCategory())
	assert.Equal(t, 2, ee.GetContext()["attempt"])
	assert.WithinDuration(t, time.Now(), ee.GetTimestamp(), time.Second)
}

func TestErrorBuilder_Unwrap(t *testing.T) {
	t.Parallel()

	base := NewStd("label file missing")
	wrapped := fmt.Errorf("loading classifier: %w", base)
	ee := New(wrapped).Category(CategoryLabelLoad).Build()

	assert.True(t, Is(ee, base))

	var target *EnhancedError
	require.True(t, As(ee, &target))
	assert.Equal(t, CategoryLabelLoad, target.Category)
}

func TestDetectCategory_Heuristics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  string
		want ErrorCategory
	}{
		{"model load", "failed to load model data", CategoryModelLoad},
		{"label", "label count mismatch", CategoryLabelLoad},
		{"insufficient", "only 3 observations, insufficient data", CategoryInsufficientData},
		{"timeout", "context deadline exceeded", CategoryTimeout},
		{"network", "connection refused", CategoryNetwork},
		{"validation", "invalid latitude", CategoryValidation},
		{"file", "cannot open file", CategoryFileIO},
		{"generic", "something odd", CategoryGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ee := New(NewStd(tt.msg)).Build()
			assert.Equal(t, tt.want, ee.Category)
		})
	}
}

func TestIsCategory(t *testing.T) {
	t.Parallel()

	ee := Newf("only %d observations, insufficient data", 2).
		Category(CategoryInsufficientData).
		Build()

	assert.True(t, IsInsufficientData(ee))
	assert.False(t, IsTimeout(ee))
	assert.False(t, IsInsufficientData(NewStd("plain")))
}

func TestPriority_InvalidFallsBack(t *testing.T) {
	t.Parallel()

	ee := New(NewStd("oops")).Priority("urgent").Build()
	assert.Equal(t, PriorityMedium, ee.Priority)

	ee = New(NewStd("oops")).Priority(PriorityHigh).Build()
	assert.Equal(t, PriorityHigh, ee.Priority)
}
