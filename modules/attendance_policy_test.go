package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttendancePolicy_Decide(t *testing.T) {
	policy := NewAttendancePolicy(2)

	d := policy.Decide(0)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.CountToday)

	d = policy.Decide(1)
	assert.True(t, d.Allowed)

	d = policy.Decide(2)
	assert.False(t, d.Allowed)
	assert.Equal(t, 2, d.CountToday)

	d = policy.Decide(3)
	assert.False(t, d.Allowed)
}

func TestAttendancePolicy_ZeroCapRefusesEverything(t *testing.T) {
	policy := NewAttendancePolicy(0)
	assert.False(t, policy.Decide(0).Allowed)
}
