// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs on robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc is one run of a job. The context is cancelled when the scheduler
// stops.
type JobFunc func(ctx context.Context) error

// registeredJob holds metadata about a registered cron job.
type registeredJob struct {
	name        string
	description string
	schedule    string
	entryID     cron.EntryID
	run         JobFunc

	mu      sync.Mutex
	lastErr error
	runs    int
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name        string
	Description string
	Schedule    string
	LastRun     time.Time
	NextRun     time.Time
	Runs        int
	LastError   string
}

// Scheduler owns the cron instance and the jobs registered on it.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.RWMutex
	jobs map[string]*registeredJob
}

// New creates a scheduler. Jobs never run concurrently with themselves;
// a run that is still going when the next tick fires is skipped.
func New(logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger{logger}),
			cron.SkipIfStillRunning(cronLogger{logger}),
		)),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*registeredJob),
	}
}

// Add registers fn under name with a standard five-field cron expression or
// a descriptor such as "@daily".
func (s *Scheduler) Add(name, description, schedule string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job already registered: %s", name)
	}

	job := &registeredJob{
		name:        name,
		description: description,
		schedule:    schedule,
		run:         fn,
	}
	id, err := s.cron.AddFunc(schedule, func() { s.execute(job) })
	if err != nil {
		return fmt.Errorf("invalid cron expression %q for %s: %w", schedule, name, err)
	}
	job.entryID = id
	s.jobs[name] = job

	s.logger.Debug("registered scheduled job", "name", name, "schedule", schedule)
	return nil
}

func (s *Scheduler) execute(job *registeredJob) {
	start := time.Now()
	err := job.run(s.ctx)

	job.mu.Lock()
	job.runs++
	job.lastErr = err
	job.mu.Unlock()

	if err != nil {
		s.logger.Error("scheduled job failed", "job", job.name, "error", err)
		return
	}
	s.logger.Debug("scheduled job finished", "job", job.name, "duration", time.Since(start))
}

// TriggerNow runs a job immediately in the calling goroutine.
func (s *Scheduler) TriggerNow(name string) error {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}

	s.logger.Info("manually triggering job", "name", name)
	s.execute(job)

	job.mu.Lock()
	defer job.mu.Unlock()
	return job.lastErr
}

// List returns all registered jobs sorted by name.
func (s *Scheduler) List() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]JobInfo, 0, len(s.jobs))
	for _, job := range s.jobs {
		entry := s.cron.Entry(job.entryID)
		info := JobInfo{
			Name:        job.name,
			Description: job.description,
			Schedule:    job.schedule,
			LastRun:     entry.Prev,
			NextRun:     entry.Next,
		}
		job.mu.Lock()
		info.Runs = job.runs
		if job.lastErr != nil {
			info.LastError = job.lastErr.Error()
		}
		job.mu.Unlock()
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
