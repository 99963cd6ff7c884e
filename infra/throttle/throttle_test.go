package throttle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThrottle_BurstThenDeny(t *testing.T) {
	th := New(1, 2)

	assert.True(t, th.Allow("acc-1"))
	assert.True(t, th.Allow("acc-1"))
	assert.False(t, th.Allow("acc-1"))

	// buckets are independent per key
	assert.True(t, th.Allow("acc-2"))
}

func TestThrottle_NonPositiveArgsClamp(t *testing.T) {
	th := New(0, 0)
	assert.True(t, th.Allow("acc-1"))
	assert.False(t, th.Allow("acc-1"))
}
