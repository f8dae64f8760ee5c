package ingest

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/mentora-labs/mentora/internal/models"
)

// BatchItem is one piece of content the extension asks to ingest.
type BatchItem struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// PairResult records the outcome for one (item, advisor) pair.
type PairResult struct {
	URL       string `json:"url"`
	AdvisorID string `json:"advisorId,omitempty"`
	Success   bool   `json:"success"`
	Chunks    int    `json:"chunks,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchResult is the always-returned summary of a batch run. Callers must
// inspect Results: a failing pair never fails the batch.
type BatchResult struct {
	JobID      string       `json:"jobId"`
	Queued     int          `json:"queued"`
	Completed  int          `json:"completed"`
	Successful int          `json:"successful"`
	Results    []PairResult `json:"results"`
}

// IngestBatch runs the (item × advisor) cross-product. Pairs run on a bounded
// worker pool; each pair's internal pipeline stays sequential, and the
// embedding provider's shared limiter keeps the aggregate call rate honest
// across workers. One pair's failure is recorded in its result entry and
// never aborts siblings.
func (i *Ingestor) IngestBatch(ctx context.Context, advisorIDs []string, items []BatchItem, workers int) BatchResult {
	if workers < 1 {
		workers = 1
	}

	res := BatchResult{
		JobID:  uuid.NewString(),
		Queued: len(items) * len(advisorIDs),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	record := func(r PairResult) {
		mu.Lock()
		res.Results = append(res.Results, r)
		if r.Success {
			res.Successful++
		}
		mu.Unlock()
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		pool = nil // degraded: run pairs inline
	} else {
		defer pool.Release()
	}

	for _, item := range items {
		if item.Type == "" || item.URL == "" {
			record(PairResult{URL: item.URL, Error: "missing type or URL"})
			continue
		}

		for _, advisorID := range advisorIDs {
			item, advisorID := item, advisorID
			run := func() {
				defer wg.Done()
				out, err := i.Ingest(ctx, models.SourceDescriptor{
					AdvisorID:  advisorID,
					SourceType: item.Type,
					URL:        item.URL,
					Title:      item.Title,
				})
				if err != nil {
					record(PairResult{URL: item.URL, AdvisorID: advisorID, Error: err.Error()})
					return
				}
				record(PairResult{URL: item.URL, AdvisorID: advisorID, Success: true, Chunks: out.Chunks})
			}

			wg.Add(1)
			if pool == nil || pool.Submit(run) != nil {
				run()
			}
		}
	}

	wg.Wait()
	res.Completed = len(res.Results)
	return res
}
