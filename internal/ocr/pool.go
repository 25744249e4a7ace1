package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/leptess/internal/imaging"
	"github.com/ironsheep/leptess/internal/leptonica"
	"github.com/ironsheep/leptess/internal/tesseract"
)

// ErrPoolClosed is returned by Pool methods called after Close.
var ErrPoolClosed = errors.New("ocr: pool closed")

// Pool owns a fixed set of initialized engines and lends one to each job.
//
// Loading language data is the expensive part of engine setup, so engines
// are kept in the initialized state between jobs and only rebound to new
// images. Each engine is used by one goroutine at a time. A job that fails
// leaves its engine closed; the slot is reinitialized on next use.
//
// Pool is safe for concurrent use.
type Pool struct {
	opts    Options
	size    int
	created int
	workers chan *worker
	done    chan struct{}
	once    sync.Once
}

type worker struct {
	id     string
	engine *tesseract.Initialized
}

// NewPool initializes size engines with opts. If any engine fails to
// initialize, the ones already created are closed and the error returned.
func NewPool(size int, opts Options) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("ocr: pool size must be at least 1, got %d", size)
	}

	p := &Pool{
		opts:    opts,
		size:    size,
		workers: make(chan *worker, size),
		done:    make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		w := &worker{id: uuid.NewString()}
		if err := w.ensure(opts); err != nil {
			p.Close()
			return nil, err
		}
		slog.Debug("ocr engine ready", "engine", w.id, "language", opts.language())
		p.workers <- w
		p.created++
	}
	return p, nil
}

func (w *worker) ensure(opts Options) error {
	if w.engine != nil {
		return nil
	}
	engine, err := NewEngine(opts)
	if err != nil {
		return err
	}
	w.engine = engine
	return nil
}

// Size returns the number of engines in the pool.
func (p *Pool) Size() int {
	return p.size
}

// Language returns the language the pooled engines were initialized with.
func (p *Pool) Language() string {
	return p.opts.language()
}

func (p *Pool) acquire(ctx context.Context) (*worker, error) {
	select {
	case <-p.done:
		return nil, ErrPoolClosed
	default:
	}

	select {
	case w := <-p.workers:
		return w, nil
	case <-p.done:
		return nil, ErrPoolClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Pool) release(w *worker) {
	p.workers <- w
}

// run lends an engine to fn. fn must return the engine it was given back
// in the initialized state, or nil if the engine was closed.
func (p *Pool) run(ctx context.Context, fn func(*tesseract.Initialized) (*tesseract.Initialized, error)) error {
	w, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	defer p.release(w)

	if err := w.ensure(p.opts); err != nil {
		return err
	}
	w.engine, err = fn(w.engine)
	if w.engine == nil {
		slog.Debug("ocr engine discarded after failure", "engine", w.id, "error", err)
	}
	return err
}

// Recognize runs OCR over region of pix, or the whole image when region is
// empty, on a pooled engine. It blocks until an engine is free or ctx is
// done. Recognition itself cannot be interrupted.
func (p *Pool) Recognize(ctx context.Context, pix *leptonica.Pix, region image.Rectangle) (*OCRResult, error) {
	var result *OCRResult
	err := p.run(ctx, func(engine *tesseract.Initialized) (*tesseract.Initialized, error) {
		return recognize(engine, pix, region, p.opts, func(done *tesseract.Recognized, scale float64) error {
			var err error
			result, err = readResult(done, scale)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DetectTextRegions is the pooled form of the package-level DetectTextRegions.
func (p *Pool) DetectTextRegions(ctx context.Context, pix *leptonica.Pix, level tesseract.Level, minConfidence float64) (*DetectTextRegionsResult, error) {
	var result *DetectTextRegionsResult
	err := p.run(ctx, func(engine *tesseract.Initialized) (*tesseract.Initialized, error) {
		return recognize(engine, pix, image.Rectangle{}, p.opts, func(done *tesseract.Recognized, scale float64) error {
			var err error
			result, err = readRegions(done, level, minConfidence, scale)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExtractFile loads imagePath and recognizes it on a pooled engine.
func (p *Pool) ExtractFile(ctx context.Context, imagePath string) (*OCRResult, error) {
	pix, err := imaging.ReadPix(imagePath)
	if err != nil {
		return nil, err
	}
	defer pix.Close()
	return p.Recognize(ctx, pix, image.Rectangle{})
}

// BatchResult is the outcome of one file in ExtractBatch.
type BatchResult struct {
	Path   string     `json:"path"`
	Result *OCRResult `json:"result,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// ExtractBatch recognizes every path, running up to Size jobs at once.
// Results are returned in the order of paths. A file that fails records its
// error in its BatchResult and does not stop the batch; only cancellation of
// ctx or closing the pool does.
func (p *Pool) ExtractBatch(ctx context.Context, paths []string) ([]BatchResult, error) {
	results := make([]BatchResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)

	for i, path := range paths {
		g.Go(func() error {
			results[i].Path = path
			res, err := p.ExtractFile(ctx, path)
			switch {
			case errors.Is(err, ErrPoolClosed), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			case err != nil:
				results[i].Error = err.Error()
			default:
				results[i].Result = res
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Close waits for in-flight jobs to return their engines and closes them.
// Later calls do nothing.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.done)
		for i := 0; i < p.created; i++ {
			w := <-p.workers
			if w.engine != nil {
				w.engine.Close()
				w.engine = nil
			}
			slog.Debug("ocr engine closed", "engine", w.id)
		}
	})
}
