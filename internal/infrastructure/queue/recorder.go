// Package queue provides the asynchronous persistence path for analysis
// records so live analyses respond without waiting on storage.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/refi-rr/crypto-dss/internal/api/metrics"
	"github.com/refi-rr/crypto-dss/internal/core/domain"
	"github.com/refi-rr/crypto-dss/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Recorder routes analysis records to a fixed set of workers using consistent
// hashing on the pair, guaranteeing per-pair insertion ordering.
type Recorder struct {
	workers []chan *domain.AnalysisRecord
	repo    ports.AnalysisRepository
	log     zerolog.Logger
}

// NewRecorder creates a Recorder with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewRecorder(numWorkers int, repo ports.AnalysisRepository, log zerolog.Logger) *Recorder {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &Recorder{
		workers: make([]chan *domain.AnalysisRecord, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan *domain.AnalysisRecord, channelBuffer)
	}
	return r
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (r *Recorder) Start(ctx context.Context) {
	for i, ch := range r.workers {
		go r.runWorker(ctx, i, ch)
	}
}

// Record sends the record to the worker responsible for its pair. The call
// is non-blocking up to channelBuffer capacity.
func (r *Recorder) Record(rec *domain.AnalysisRecord) {
	idx := r.shardIndex(rec.Pair)
	r.workers[idx] <- rec
	metrics.RecorderQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(r.workers[idx])))
}

// shardIndex maps a pair deterministically to a worker index.
func (r *Recorder) shardIndex(pair string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(pair))
	return int(h.Sum32()) % len(r.workers)
}

func (r *Recorder) runWorker(ctx context.Context, id int, ch <-chan *domain.AnalysisRecord) {
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-ch:
			if !ok {
				return
			}
			if _, err := r.repo.Insert(ctx, rec); err != nil {
				r.log.Error().Err(err).
					Str("pair", rec.Pair).
					Int("worker_id", id).
					Msg("analysis record insert failed")
				continue
			}
			metrics.AnalysesRecordedTotal.WithLabelValues(string(rec.Signal)).Inc()
			metrics.RecorderQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}
