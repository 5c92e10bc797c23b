// Package metrics exports intake and profile pipeline telemetry to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pathfinder"

// Recorder holds the service collectors. A nil *Recorder records nothing.
type Recorder struct {
	sectionSaves    *prometheus.CounterVec
	profileRuns     *prometheus.CounterVec
	profileDuration prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
	narrativeRuns   *prometheus.CounterVec
	queueJobs       *prometheus.CounterVec
}

// New registers the collectors with reg, reusing any that are already
// registered. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		sectionSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "section_saves_total",
			Help:      "Section upserts by section and result.",
		}, []string{"section", "result"}),
		profileRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_runs_total",
			Help:      "Profile pipeline runs by result.",
		}, []string{"result"}),
		profileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "profile_run_duration_seconds",
			Help:      "Latency of load, score, resolve and save for one profile.",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "occupation_cache_lookups_total",
			Help:      "Occupation lookups served from cache (hit) or the database (miss).",
		}, []string{"outcome"}),
		narrativeRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narrative_runs_total",
			Help:      "Narrative generations by kind and result.",
		}, []string{"kind", "result"}),
		queueJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_queue_jobs_total",
			Help:      "Profile queue jobs by result.",
		}, []string{"result"}),
	}

	var err error
	if r.sectionSaves, err = register(reg, r.sectionSaves); err != nil {
		return nil, err
	}
	if r.profileRuns, err = register(reg, r.profileRuns); err != nil {
		return nil, err
	}
	if r.profileDuration, err = register(reg, r.profileDuration); err != nil {
		return nil, err
	}
	if r.cacheLookups, err = register(reg, r.cacheLookups); err != nil {
		return nil, err
	}
	if r.narrativeRuns, err = register(reg, r.narrativeRuns); err != nil {
		return nil, err
	}
	if r.queueJobs, err = register(reg, r.queueJobs); err != nil {
		return nil, err
	}
	return r, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// SectionSaved counts one section upsert.
func (r *Recorder) SectionSaved(section string, err error) {
	if r == nil {
		return
	}
	r.sectionSaves.WithLabelValues(section, result(err)).Inc()
}

// ProfileProcessed records one profile pipeline run. outcome is "ok",
// "error" or "no_sections".
func (r *Recorder) ProfileProcessed(outcome string, took time.Duration) {
	if r == nil {
		return
	}
	r.profileRuns.WithLabelValues(outcome).Inc()
	r.profileDuration.Observe(took.Seconds())
}

// CacheLookup counts one occupation cache lookup.
func (r *Recorder) CacheLookup(hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	r.cacheLookups.WithLabelValues("miss").Inc()
}

// NarrativeGenerated counts one generation call.
func (r *Recorder) NarrativeGenerated(kind string, err error) {
	if r == nil {
		return
	}
	r.narrativeRuns.WithLabelValues(kind, result(err)).Inc()
}

// QueueJob counts one profile queue job. outcome is "ok", "retry" or "dropped".
func (r *Recorder) QueueJob(outcome string) {
	if r == nil {
		return
	}
	r.queueJobs.WithLabelValues(outcome).Inc()
}
