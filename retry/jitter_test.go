package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJitter_Disabled(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Second, WithoutJitter.apply(time.Second))
	assert.Equal(t, time.Second, Jitter(-1).apply(time.Second))
}

func TestJitter_AdditiveRange(t *testing.T) {
	t.Parallel()

	base := time.Second

	for range 200 {
		d := DefaultJitter.apply(base)
		assert.GreaterOrEqual(t, d, base, "jitter is additive, never shortens the delay")
		assert.Less(t, d, time.Duration(float64(base)*1.3))
	}
}

func TestJitter_ZeroDelay(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Duration(0), DefaultJitter.apply(0))
}
