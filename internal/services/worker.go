package services

import (
	"context"
	"errors"
	"hash/fnv"
	"log"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/career-match/internal/models"
)

var ErrIndexQueueFull = errors.New("index queue is full")

var ErrWorkerStopped = errors.New("index worker stopped")

type indexJob struct {
	userID uuid.UUID
	rows   []models.JobSuggestion
}

// IndexWorker moves vector indexing off the request path. It satisfies
// SuggestionIndexer by queueing work for a pool of goroutines. Jobs of one
// owner always land on the same goroutine, so generations are indexed in the
// order they were stored.
type IndexWorker interface {
	SuggestionIndexer
	Start(ctx context.Context)
	Stop()
}

type indexWorker struct {
	indexer     SuggestionIndexer
	queues      []chan indexJob
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewIndexWorker(indexer SuggestionIndexer, concurrency int) IndexWorker {
	if concurrency < 1 {
		concurrency = 1
	}

	queues := make([]chan indexJob, concurrency)
	for i := range queues {
		queues[i] = make(chan indexJob, 100)
	}

	return &indexWorker{
		indexer:     indexer,
		queues:      queues,
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements IndexWorker.
func (w *indexWorker) Start(ctx context.Context) {
	log.Printf("🚀 Starting index worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1, w.queues[i])
	}

	log.Println("✅ Index worker started successfully")
}

// Stop implements IndexWorker. Queued jobs that have not started are dropped.
func (w *indexWorker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping index worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Index worker stopped")
	})
}

// IndexSuggestions implements SuggestionIndexer. It never blocks.
func (w *indexWorker) IndexSuggestions(ctx context.Context, userID uuid.UUID, rows []models.JobSuggestion) error {
	select {
	case <-w.stopChan:
		return ErrWorkerStopped
	default:
	}

	select {
	case w.queueFor(userID) <- indexJob{userID: userID, rows: rows}:
		log.Printf("📥 Index job for user %s enqueued\n", userID)
		return nil
	default:
		return ErrIndexQueueFull
	}
}

func (w *indexWorker) queueFor(userID uuid.UUID) chan indexJob {
	h := fnv.New32a()
	_, _ = h.Write(userID[:])
	return w.queues[h.Sum32()%uint32(len(w.queues))]
}

func (w *indexWorker) processJobs(ctx context.Context, workerID int, jobs <-chan indexJob) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Index worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			return
		case job := <-jobs:
			if err := w.indexer.IndexSuggestions(ctx, job.userID, job.rows); err != nil {
				log.Printf("❌ Index worker #%d failed for user %s: %v\n", workerID, job.userID, err)
			} else {
				log.Printf("✅ Index worker #%d indexed %d suggestions for user %s\n", workerID, len(job.rows), job.userID)
			}
		}
	}
}
