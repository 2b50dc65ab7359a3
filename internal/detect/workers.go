package detect

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/dtnitsch/web-table-parser/internal/common"
	"github.com/dtnitsch/web-table-parser/models"
	"github.com/dtnitsch/web-table-parser/pkg/bridge"
)

// Job is one page to detect tables on.
type Job struct {
	Seq    int
	Source string
}

// Result is the outcome of one Job.
type Result struct {
	Seq      int             `json:"-" yaml:"-"`
	Source   string          `json:"source" yaml:"source"`
	Response models.Response `json:"response" yaml:"response"`
	Error    string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// run detects tables on every source with a fixed pool of workers and
// returns the results in input order. Each page is handled by exactly one
// worker.
func run(ctx context.Context, logger *slog.Logger, engine *common.Engine, recorder bridge.Recorder, sources []string, workers int) []Result {
	logger.Info("Starting detection", "sources", len(sources), "workers", workers)

	var wg sync.WaitGroup
	jobs := make(chan Job, len(sources))
	results := make(chan Result, len(sources))

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go worker(ctx, w, logger, engine, recorder, &wg, jobs, results)
	}

	for i, src := range sources {
		jobs <- Job{Seq: i, Source: src}
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("All detection workers finished")

	all := make([]Result, 0, len(sources))
	for r := range results {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Seq < all[j].Seq })
	return all
}

func worker(ctx context.Context, id int, logger *slog.Logger, engine *common.Engine, recorder bridge.Recorder, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		logger.Info("Worker started job", "worker_id", id, "source", job.Source)
		result := Result{Seq: job.Seq, Source: job.Source}

		h, err := engine.Open(ctx, job.Source)
		if err != nil {
			logger.Error("Error loading page", "worker_id", id, "source", job.Source, "error", err)
			result.Error = err.Error()
			results <- result
			continue
		}
		h.Recorder = recorder

		result.Response = h.Handle(ctx, models.Request{Action: models.ActionDetectTables})
		if !result.Response.Success {
			result.Error = result.Response.Error
		}
		logger.Info("Worker finished processing", "worker_id", id, "source", job.Source, "tables", len(result.Response.Tables))
		results <- result
	}
}
