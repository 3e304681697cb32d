package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/career-match/internal/models"
)

func TestIndexWorker_ProcessesQueuedJobs(t *testing.T) {
	indexer := &recordingIndexer{done: make(chan struct{}, 4)}
	worker := NewIndexWorker(indexer, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)
	defer worker.Stop()

	rows := []models.JobSuggestion{{ID: uuid.New()}, {ID: uuid.New()}}
	for i := 0; i < 3; i++ {
		if err := worker.IndexSuggestions(context.Background(), uuid.New(), rows); err != nil {
			t.Fatalf("IndexSuggestions: %v", err)
		}
	}

	for i := 0; i < 3; i++ {
		select {
		case <-indexer.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of 3 jobs processed", i)
		}
	}

	if indexer.Calls() != 3 {
		t.Errorf("calls = %d", indexer.Calls())
	}
}

func TestIndexWorker_RejectsAfterStop(t *testing.T) {
	worker := NewIndexWorker(&recordingIndexer{}, 1)
	worker.Start(context.Background())
	worker.Stop()
	worker.Stop()

	err := worker.IndexSuggestions(context.Background(), uuid.New(), nil)
	if !errors.Is(err, ErrWorkerStopped) {
		t.Fatalf("expected ErrWorkerStopped, got %v", err)
	}
}

func TestIndexWorker_QueueFull(t *testing.T) {
	// never started, so nothing drains the queue
	worker := NewIndexWorker(&recordingIndexer{}, 1)

	var err error
	for i := 0; i < 101 && err == nil; i++ {
		err = worker.IndexSuggestions(context.Background(), uuid.New(), nil)
	}
	if !errors.Is(err, ErrIndexQueueFull) {
		t.Fatalf("expected ErrIndexQueueFull, got %v", err)
	}
}

// latestIndexer remembers, per owner, the generation it indexed last. The
// first generation it sees is slow.
type latestIndexer struct {
	mu     sync.Mutex
	latest map[uuid.UUID]uuid.UUID
	slow   uuid.UUID
	done   chan struct{}
}

func (i *latestIndexer) IndexSuggestions(ctx context.Context, userID uuid.UUID, rows []models.JobSuggestion) error {
	if rows[0].GenerationID == i.slow {
		time.Sleep(100 * time.Millisecond)
	}
	i.mu.Lock()
	i.latest[userID] = rows[0].GenerationID
	i.mu.Unlock()
	i.done <- struct{}{}
	return nil
}

func TestIndexWorker_KeepsOwnerGenerationsInOrder(t *testing.T) {
	userID := uuid.New()
	older, newer := uuid.New(), uuid.New()

	indexer := &latestIndexer{
		latest: make(map[uuid.UUID]uuid.UUID),
		slow:   older,
		done:   make(chan struct{}, 2),
	}
	worker := NewIndexWorker(indexer, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.Start(ctx)
	defer worker.Stop()

	for _, gen := range []uuid.UUID{older, newer} {
		rows := []models.JobSuggestion{{ID: uuid.New(), UserID: userID, GenerationID: gen}}
		if err := worker.IndexSuggestions(context.Background(), userID, rows); err != nil {
			t.Fatalf("IndexSuggestions: %v", err)
		}
	}

	for i := 0; i < 2; i++ {
		select {
		case <-indexer.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of 2 jobs processed", i)
		}
	}

	indexer.mu.Lock()
	defer indexer.mu.Unlock()
	if got := indexer.latest[userID]; got != newer {
		t.Errorf("index holds generation %s, want the newer %s", got, newer)
	}
}
