// MoonFlix - Streaming Catalog and Discovery Service
// Copyright 2026 MoonFlix contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moonflix/moonflix

// Package queue provides a FIFO task queue with a fixed concurrency limit.
//
// The queue is the sole backpressure mechanism of the enrichment pipeline:
// any number of tasks may be enqueued, but at most maxConcurrency execute at
// once. Tasks carry no results through the queue itself; they communicate
// through their own closures.
package queue

import (
	"sync"

	"github.com/moonflix/moonflix/internal/logging"
	"github.com/moonflix/moonflix/internal/metrics"
)

// Task is a unit of deferred work. Tasks run on their own goroutine once a
// concurrency slot frees up.
type Task func()

// Queue caps the number of concurrently executing tasks. The backlog is
// unbounded and strictly FIFO; there is no priority and no cancellation once
// a task is enqueued.
type Queue struct {
	mu             sync.Mutex
	backlog        []Task
	pending        int
	maxConcurrency int
}

// New creates a Queue executing at most maxConcurrency tasks at once.
// Values below 1 are clamped to 1.
func New(maxConcurrency int) *Queue {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Queue{maxConcurrency: maxConcurrency}
}

// Enqueue appends a task to the backlog and triggers scheduling. It never
// blocks.
func (q *Queue) Enqueue(task Task) {
	if task == nil {
		return
	}
	q.mu.Lock()
	q.backlog = append(q.backlog, task)
	metrics.QueueTasksTotal.Inc()
	metrics.QueueDepth.Set(float64(len(q.backlog)))
	q.mu.Unlock()

	q.processNext()
}

// processNext dequeues the head task when a slot is free. The slot is
// released unconditionally when the task returns or panics, and scheduling
// is re-triggered so the backlog drains.
func (q *Queue) processNext() {
	q.mu.Lock()
	if q.pending >= q.maxConcurrency || len(q.backlog) == 0 {
		q.mu.Unlock()
		return
	}
	task := q.backlog[0]
	q.backlog = q.backlog[1:]
	q.pending++
	metrics.QueueDepth.Set(float64(len(q.backlog)))
	metrics.QueueInFlight.Set(float64(q.pending))
	q.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.Error().Interface("panic", r).Msg("queue task panicked")
			}
			q.mu.Lock()
			q.pending--
			metrics.QueueInFlight.Set(float64(q.pending))
			q.mu.Unlock()
			q.processNext()
		}()
		task()
	}()
}

// Depth returns the current backlog length.
func (q *Queue) Depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}

// InFlight returns the number of currently executing tasks.
func (q *Queue) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending
}
