package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := New(reg)
	require.NoError(t, err)

	r.SectionSaved("interests", nil)
	r.SectionSaved("interests", errors.New("boom"))
	r.SectionSaved("values", nil)
	r.CacheLookup(true)
	r.CacheLookup(false)
	r.CacheLookup(false)
	r.ProfileProcessed("ok", 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.sectionSaves.WithLabelValues("interests", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.profileRuns.WithLabelValues("ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.profileDuration))
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	require.NoError(t, err)
	second, err := New(reg)
	require.NoError(t, err)

	first.QueueJob("retry")
	second.QueueJob("retry")

	assert.Equal(t, 2.0, testutil.ToFloat64(first.queueJobs.WithLabelValues("retry")))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.SectionSaved("x", nil)
		r.ProfileProcessed("ok", time.Second)
		r.CacheLookup(true)
		r.NarrativeGenerated("report", nil)
		r.QueueJob("ok")
	})
}
