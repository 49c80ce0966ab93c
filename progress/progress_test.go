package progress

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestReporter_ThrottlesByInterval(t *testing.T) {
	log := logrus.NewEntry(logrus.New())
	r := New(log, time.Minute)

	fake := time.Now()
	r.now = func() time.Time { return fake }

	assert.True(t, r.ShouldReport(), "first call always reports")
	assert.False(t, r.ShouldReport(), "too soon")

	fake = fake.Add(2 * time.Minute)
	assert.True(t, r.ShouldReport(), "interval elapsed")
}

func TestReporter_DefaultsIntervalWhenNonPositive(t *testing.T) {
	log := logrus.NewEntry(logrus.New())
	r := New(log, 0)
	assert.Equal(t, time.Second, r.interval)
}
