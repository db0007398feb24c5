package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/nulzo/intent-router/internal/store"
	"github.com/nulzo/intent-router/internal/store/model"
	"go.uber.org/zap"
)

// Ingestor persists usage records off the request path.
type Ingestor interface {
	Log(rec *model.UsageRecord)
	Start(ctx context.Context)
	// Stop flushes what is buffered and waits for the worker to exit.
	Stop()
}

type IngestorOption func(*ingestor)

func WithBatchSize(n int) IngestorOption {
	return func(i *ingestor) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

func WithFlushInterval(d time.Duration) IngestorOption {
	return func(i *ingestor) {
		if d > 0 {
			i.flushTime = d
		}
	}
}

func WithBufferSize(n int) IngestorOption {
	return func(i *ingestor) {
		if n > 0 {
			i.recChan = make(chan *model.UsageRecord, n)
		}
	}
}

type ingestor struct {
	logger    *zap.Logger
	repo      store.Repository
	recChan   chan *model.UsageRecord
	batchSize int
	flushTime time.Duration

	// mu guards stopped and the close of recChan against concurrent Log calls.
	mu       sync.RWMutex
	stopped  bool
	done     chan struct{}
	stopOnce sync.Once
}

func NewIngestor(logger *zap.Logger, repo store.Repository, opts ...IngestorOption) Ingestor {
	i := &ingestor{
		logger:    logger,
		repo:      repo,
		recChan:   make(chan *model.UsageRecord, 10000),
		batchSize: 50,
		flushTime: 5 * time.Second,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Log never blocks; records are dropped when the buffer is full or once
// Stop has been called.
func (i *ingestor) Log(rec *model.UsageRecord) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.stopped {
		i.logger.Warn("ingestor stopped, dropping record", zap.String("id", rec.ID))
		return
	}

	select {
	case i.recChan <- rec:
	default:
		i.logger.Warn("usage buffer full, dropping record", zap.String("id", rec.ID))
	}
}

func (i *ingestor) Start(ctx context.Context) {
	go i.worker(ctx)
}

func (i *ingestor) Stop() {
	i.stopOnce.Do(func() {
		i.mu.Lock()
		i.stopped = true
		close(i.recChan)
		i.mu.Unlock()

		<-i.done
	})
}

func (i *ingestor) worker(ctx context.Context) {
	defer close(i.done)

	batch := make([]*model.UsageRecord, 0, i.batchSize)
	ticker := time.NewTicker(i.flushTime)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		err := i.repo.WithTx(context.Background(), func(tx store.Repository) error {
			for _, rec := range batch {
				if err := tx.Usage().Log(context.Background(), rec); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			i.logger.Error("failed to persist usage batch", zap.Int("records", len(batch)), zap.Error(err))
		} else {
			i.logger.Debug("usage batch persisted", zap.Int("records", len(batch)))
		}
		batch = batch[:0]
	}

	for {
		select {
		case rec, ok := <-i.recChan:
			if !ok {
				flush()
				return
			}
			batch = append(batch, rec)
			if len(batch) >= i.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			flush()
			return
		}
	}
}
