package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/invadr/invadr-go/internal/errors"
)

const defaultBatchWorkers = 4

// BatchSummary reports what a directory run did.
type BatchSummary struct {
	Processed int
	Failed    int
}

// RunDirectory runs the pipeline over every *.json request descriptor in
// dir using a pool of concurrent workers, writing one <name>.result.json
// per descriptor into outputDir. Runs are independent, so a malformed
// descriptor fails only its own slot.
func (p *Pipeline) RunDirectory(ctx context.Context, dir, outputDir string, workers int) (BatchSummary, error) {
	descriptors, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return BatchSummary{}, errors.New(err).
			Category(errors.CategoryFileIO).
			Component("pipeline").
			Context("dir", dir).
			Build()
	}
	if len(descriptors) == 0 {
		return BatchSummary{}, errors.Newf("no request descriptors found in %s", dir).
			Category(errors.CategoryValidation).
			Component("pipeline").
			Build()
	}

	if workers <= 0 {
		workers = p.settings.Pipeline.Workers
	}
	if workers <= 0 {
		workers = defaultBatchWorkers
	}
	if workers > len(descriptors) {
		workers = len(descriptors)
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	summary := BatchSummary{}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for descriptor := range jobs {
				err := p.runOne(ctx, descriptor, outputDir)

				mu.Lock()
				if err != nil {
					summary.Failed++
				} else {
					summary.Processed++
				}
				mu.Unlock()

				if err != nil && p.log != nil {
					p.log.Error("batch run failed", "input", descriptor, "error", err)
				}
			}
		}()
	}

	for _, descriptor := range descriptors {
		if ctx.Err() != nil {
			break
		}
		jobs <- descriptor
	}
	close(jobs)
	wg.Wait()

	if p.log != nil {
		p.log.Info("batch complete",
			"dir", dir,
			"processed", summary.Processed,
			"failed", summary.Failed)
	}
	return summary, ctx.Err()
}

func (p *Pipeline) runOne(ctx context.Context, descriptor, outputDir string) error {
	result, err := p.RunFile(ctx, descriptor)
	if err != nil {
		return err
	}
	return result.WriteJSON(outputPath(descriptor, outputDir))
}

// outputPath maps input/observation.json to <outputDir>/observation.result.json.
func outputPath(descriptor, outputDir string) string {
	base := strings.TrimSuffix(filepath.Base(descriptor), filepath.Ext(descriptor))
	return filepath.Join(outputDir, base+".result.json")
}
