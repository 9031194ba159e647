package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// EmailTask represents an email to be sent; Body is HTML
type EmailTask struct {
	Recipient string
	Subject   string
	Body      string
}

// EmailProvider interface for sending emails
type EmailProvider interface {
	SendEmail(ctx context.Context, email, subject, body string) error
}

// EmailWorkerPool delivers mail on a fixed set of goroutines fed by a buffered channel.
// Delivery is fire-and-forget: failures are logged, never retried.
type EmailWorkerPool struct {
	taskQueue     chan EmailTask
	emailProvider EmailProvider
	sendTimeout   time.Duration
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc

	mu     sync.RWMutex
	closed bool

	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

// NewEmailWorkerPool creates a new email worker pool
func NewEmailWorkerPool(workerCount int, queueSize int, emailProvider EmailProvider) *EmailWorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	ctx, cancel := context.WithCancel(context.Background())

	pool := &EmailWorkerPool{
		taskQueue:     make(chan EmailTask, queueSize),
		emailProvider: emailProvider,
		sendTimeout:   30 * time.Second,
		ctx:           ctx,
		cancel:        cancel,
	}

	for i := 0; i < workerCount; i++ {
		pool.wg.Add(1)
		go pool.worker(i)
	}

	zap.L().Info("email worker pool started", zap.Int("workers", workerCount), zap.Int("queue_size", queueSize))
	return pool
}

// Stop stops accepting tasks, lets the workers drain the queue and waits for them
func (p *EmailWorkerPool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.taskQueue)
	p.mu.Unlock()

	zap.L().Info("stopping email worker pool")
	p.wg.Wait()
	p.cancel()
	zap.L().Info("email worker pool stopped",
		zap.Int64("sent", p.sent.Load()),
		zap.Int64("failed", p.failed.Load()),
		zap.Int64("dropped", p.dropped.Load()),
	)
}

// Enqueue hands a task to the pool without blocking.
// Tasks are dropped (and logged) when the queue is full or the pool has stopped.
func (p *EmailWorkerPool) Enqueue(task EmailTask) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.dropped.Add(1)
		zap.L().Warn("email worker pool is stopped, discarding task", zap.String("recipient", task.Recipient))
		return
	}

	select {
	case p.taskQueue <- task:
	default:
		p.dropped.Add(1)
		zap.L().Warn("email queue is full, discarding task", zap.String("recipient", task.Recipient))
	}
}

// Stats returns the number of delivered, failed and dropped tasks
func (p *EmailWorkerPool) Stats() (sent, failed, dropped int64) {
	return p.sent.Load(), p.failed.Load(), p.dropped.Load()
}

func (p *EmailWorkerPool) worker(id int) {
	defer p.wg.Done()

	zap.L().Debug("email worker started", zap.Int("worker_id", id))

	for task := range p.taskQueue {
		p.handleTask(id, task)
	}

	zap.L().Debug("email worker stopped", zap.Int("worker_id", id))
}

func (p *EmailWorkerPool) handleTask(workerID int, task EmailTask) {
	ctx, cancel := context.WithTimeout(p.ctx, p.sendTimeout)
	defer cancel()

	if err := p.emailProvider.SendEmail(ctx, task.Recipient, task.Subject, task.Body); err != nil {
		p.failed.Add(1)
		zap.L().Error("failed to send email",
			zap.Int("worker_id", workerID),
			zap.String("recipient", task.Recipient),
			zap.Error(err),
		)
		return
	}

	p.sent.Add(1)
	zap.L().Info("email sent", zap.Int("worker_id", workerID), zap.String("recipient", task.Recipient))
}
