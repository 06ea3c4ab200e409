package lib

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCronJob(t *testing.T) {
	sched, err := gocron.NewScheduler()
	require.NoError(t, err)
	NewScheduler(sched)
	t.Cleanup(func() {
		sched.Shutdown()
		scheduler = nil
	})

	var runs atomic.Int32
	id, err := CreateCronJob("tick", 10*time.Millisecond, func(step int32) {
		runs.Add(step)
	}, int32(1))
	require.NoError(t, err)
	assert.NotEmpty(t, *id)

	_, err = CreateOneTimeJob("once", func() { runs.Add(100) })
	require.NoError(t, err)

	sched.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 102 }, 2*time.Second, 10*time.Millisecond)
}
