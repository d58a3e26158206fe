// Package worker provides background processing for cache warming jobs.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/ratify/internal/core/ports"
)

// Job asks the pool to refresh the cached aggregate for one album.
type Job struct {
	AlbumID string
}

// Pool manages background workers that re-read album aggregates from the
// repository and push them into the cache after a write. Warming is
// best-effort; a dropped or failed job only costs a cache miss later.
type Pool struct {
	albums ports.AlbumRepository
	cache  ports.AggregateCache
	logger *zap.Logger
	jobs   chan Job
	wg     sync.WaitGroup
}

// NewPool creates a worker pool with the given queue size.
func NewPool(albums ports.AlbumRepository, cache ports.AggregateCache, logger *zap.Logger, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{albums: albums, cache: cache, logger: logger, jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job without blocking. A full queue drops the job.
func (p *Pool) Submit(job Job) {
	select {
	case p.jobs <- job:
	default:
		p.logger.Warn("worker: queue full, dropping cache warm job",
			zap.String("albumId", job.AlbumID))
	}
}

func (p *Pool) processJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ratings, err := p.albums.GetAlbum(ctx, job.AlbumID)
	if err != nil {
		p.logger.Warn("worker: skipping cache warm, album read failed",
			zap.String("albumId", job.AlbumID), zap.Error(err))
		return
	}
	if err := p.cache.SetAggregate(ctx, ratings); err != nil {
		p.logger.Warn("worker: cache warm failed",
			zap.String("albumId", job.AlbumID), zap.Error(err))
		return
	}
	p.logger.Debug("worker: warmed album cache", zap.String("albumId", job.AlbumID))
}
