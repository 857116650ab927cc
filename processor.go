package itemserial

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"
)

// Batch operation names used in events.
const (
	opDecode  = "decode"
	opRelevel = "relevel"
)

// Result is the outcome for one item of a batch.
type Result struct {
	Index  int     // Position in the input
	Serial *Serial // Nil when Err is set
	State  State   // State after the operation
	Err    error   // Fatal error for this item only

	// Fingerprint of the decoded plaintext, set when the Processor has a
	// Fingerprinter.
	Fingerprint string
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithWorkers sets the number of concurrent workers. Values below 1 fall
// back to GOMAXPROCS.
func WithWorkers(n int) ProcessorOption {
	return func(p *Processor) {
		p.workers = n
	}
}

// WithFingerprinter fingerprints every successfully decoded item.
func WithFingerprinter(f Fingerprinter) ProcessorOption {
	return func(p *Processor) {
		p.fingerprinter = f
	}
}

// WithReseal makes Relevel obfuscate rewritten serials with their original
// seed instead of seed 0.
func WithReseal(reseal bool) ProcessorOption {
	return func(p *Processor) {
		p.reseal = reseal
	}
}

// Processor decodes and re-levels batches of serials against one Schema.
//
// Every item gets its own Serial and bit buffers; the only shared value
// is the read-only Schema. A failure in one item never affects another.
// Processors are safe for concurrent use.
type Processor struct {
	schema        Schema
	fingerprinter Fingerprinter
	workers       int
	reseal        bool
}

// NewProcessor creates a Processor for schema.
func NewProcessor(schema Schema, opts ...ProcessorOption) (*Processor, error) {
	if schema == nil {
		return nil, newCatalogError(ErrInvalidCatalog, "", errors.New("nil schema"))
	}
	p := &Processor{schema: schema}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers < 1 {
		p.workers = runtime.GOMAXPROCS(0)
	}
	return p, nil
}

// Decode opens and parses each raw serial.
func (p *Processor) Decode(ctx context.Context, serials [][]byte) []Result {
	return p.run(ctx, opDecode, len(serials), func(i int) Result {
		return p.decodeOne(i, func() (*Serial, error) { return Decode(serials[i], p.schema) })
	})
}

// DecodeText unwraps, opens and parses each BL3(...) serial.
func (p *Processor) DecodeText(ctx context.Context, texts []string) []Result {
	return p.run(ctx, opDecode, len(texts), func(i int) Result {
		return p.decodeOne(i, func() (*Serial, error) { return DecodeText(texts[i], p.schema) })
	})
}

// Relevel decodes each BL3(...) serial and sets its level. Unsupported
// items are returned unchanged in StateUnsupported. Rewritten serials are
// left Unparsed; their Bytes carry the new level.
func (p *Processor) Relevel(ctx context.Context, texts []string, level int) []Result {
	return p.run(ctx, opRelevel, len(texts), func(i int) Result {
		r := p.decodeOne(i, func() (*Serial, error) { return DecodeText(texts[i], p.schema) })
		if r.Err != nil || r.State != StateParsed {
			return r
		}
		if err := r.Serial.SetLevel(level); err != nil {
			return Result{Index: i, Err: err}
		}
		if p.reseal {
			r.Serial.seed = r.Serial.origSeed
		}
		r.State = r.Serial.State()
		return r
	})
}

func (p *Processor) decodeOne(i int, decode func() (*Serial, error)) Result {
	s, err := decode()
	if err != nil {
		return Result{Index: i, Err: err}
	}
	state, err := s.Parse()
	if err != nil {
		return Result{Index: i, Err: err}
	}
	r := Result{Index: i, Serial: s, State: state}
	if p.fingerprinter != nil {
		r.Fingerprint = s.Fingerprint(p.fingerprinter)
	}
	return r
}

// run fans n jobs out over the worker pool and collects results in order.
// Jobs not yet dispatched when ctx ends are marked with ctx.Err().
func (p *Processor) run(ctx context.Context, operation string, n int, job func(i int) Result) []Result {
	start := time.Now()
	emitBatchStart(ctx, operation, n)

	results := make([]Result, n)
	indices := make(chan int)

	var wg sync.WaitGroup
	workers := min(p.workers, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i] = job(i)
			}
		}()
	}

	next := 0
dispatch:
	for ; next < n; next++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case indices <- next:
		}
	}
	close(indices)
	wg.Wait()

	for i := next; i < n; i++ {
		results[i] = Result{Index: i, Err: ctx.Err()}
	}

	var failed, unsupported int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			emitSerialFailed(ctx, operation, r.Index, r.Err)
		case r.State == StateUnsupported:
			unsupported++
			emitSerialUnsupported(ctx, operation, r.Index, r.Serial.version)
		}
	}
	emitBatchComplete(ctx, operation, n, failed, unsupported, time.Since(start))

	return results
}
