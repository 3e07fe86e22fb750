// Package workerpool provides a bounded goroutine pool so scan phases
// can run thousands of tasks without goroutine explosion.
package workerpool

import (
	"log/slog"
	"runtime"
	"sync"
)

// Pool runs submitted tasks on a fixed set of worker goroutines.
// Panics inside a task are contained and logged; the worker survives.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// New creates a pool with the given number of workers. Workers start
// immediately and wait for tasks.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		tasks: make(chan func(), workers*4),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit queues a task for execution. It blocks when the queue is full
// and returns false once the pool is closed. Safe to call concurrently
// with Close.
func (p *Pool) Submit(task func()) bool {
	if task == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.tasks <- task
	return true
}

// Close stops accepting tasks, waits for queued tasks to finish and
// returns. Safe to call more than once. In-flight Submit calls complete
// before the queue is closed.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()
	close(p.tasks)
	p.wg.Wait()
}

// Waiting returns the number of queued tasks not yet picked up.
func (p *Pool) Waiting() int { return len(p.tasks) }

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		run(task)
	}
}

func run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("workerpool: task panic", slog.Any("panic", r))
		}
	}()
	task()
}
