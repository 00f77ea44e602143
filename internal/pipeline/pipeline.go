package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/sridhargunnam/framefeatures/internal/decoder"
	"github.com/sridhargunnam/framefeatures/internal/gpubuf"
	"github.com/sridhargunnam/framefeatures/internal/jobdescriptor"
	"github.com/sridhargunnam/framefeatures/internal/netengine"
	"github.com/sridhargunnam/framefeatures/internal/profiler"
	"github.com/sridhargunnam/framefeatures/internal/queue"
	"github.com/sridhargunnam/framefeatures/internal/storage"
	"github.com/sridhargunnam/framefeatures/internal/workplan"
)

// Config bundles everything one node needs to build its local
// four-stage pipeline for a job, per spec.md §2's data-flow diagram
// and §9's "pipeline builder that owns all queues and spawns stages"
// design note.
type Config struct {
	Plan    *workplan.Plan
	Backend storage.Backend
	Dataset string
	Job     string
	Backoff storage.BackoffConfig

	LoadWorkers  int
	SaveWorkers  int
	GPUs         int
	LoadBuffers  int // spec.md's LOAD_BUFFERS (per-GPU pool depth)
	WorkItemSize int

	GlobalBatchSize int
	NumCUDAStreams  int

	DecoderFactory decoder.Factory
	EngineFactory  netengine.Factory
	Allocator      gpubuf.Allocator

	// Descriptor, if set, is populated by the save stage with every
	// interval it successfully writes (spec.md §3/§4.8).
	Descriptor *jobdescriptor.JobDescriptor

	Logger Logger
}

// Pipeline is one node's live four-stage engine: the queues wiring
// load -> decode -> evaluate -> save, the per-GPU buffer pools and
// decoder/engine contexts, and the worker goroutines draining each
// queue. Build it once per job per node; Start it; push work into
// LoadQueue (directly, or via internal/distribution); Shutdown it in
// pipeline order once no more work will be pushed.
type Pipeline struct {
	cfg Config

	loadQueue   *queue.Queue[LoadWorkEntry]
	decodeQueue *queue.Queue[DecodeWorkEntry]
	evalQueues  []*queue.Queue[EvalWorkEntry] // one per GPU
	saveQueue   *queue.Queue[SaveWorkEntry]

	pools    []*gpubuf.Pool
	decoders []decoder.Decoder
	engines  []netengine.Engine

	frameSize int

	wgLoad, wgDecode, wgEval, wgSave sync.WaitGroup

	recorders struct {
		load, decode, eval, save []*profiler.Recorder
	}
}

// Build constructs a Pipeline for cfg but does not start any workers.
// It allocates one GPU buffer pool, one decoder, and one network
// engine per GPU, sized and configured from the work plan's (already
// homogeneity-verified, see workplan.Build) first video.
func Build(cfg Config) (*Pipeline, error) {
	if cfg.GPUs <= 0 {
		return nil, fmt.Errorf("pipeline: gpus must be positive, got %d", cfg.GPUs)
	}
	if cfg.LoadWorkers <= 0 || cfg.SaveWorkers <= 0 {
		return nil, fmt.Errorf("pipeline: load_workers and save_workers must be positive")
	}
	if len(cfg.Plan.Videos) == 0 {
		return nil, fmt.Errorf("pipeline: work plan has no videos")
	}

	first := cfg.Plan.Videos[0]
	frameSize := gpubuf.FrameSize(first.Width, first.Height)
	bufferSize := frameSize * cfg.WorkItemSize

	p := &Pipeline{
		cfg:         cfg,
		loadQueue:   queue.New[LoadWorkEntry](0),
		decodeQueue: queue.New[DecodeWorkEntry](0),
		saveQueue:   queue.New[SaveWorkEntry](0),
		frameSize:   frameSize,
	}

	for g := 0; g < cfg.GPUs; g++ {
		pool, err := gpubuf.New(g, bufferSize, cfg.LoadBuffers, cfg.Allocator)
		if err != nil {
			p.closePartial()
			return nil, fmt.Errorf("pipeline: gpu %d buffer pool: %w", g, err)
		}
		p.pools = append(p.pools, pool)

		dec, err := cfg.DecoderFactory(decoder.Config{
			GPU: g, Codec: first.Codec, Chroma: first.Chroma,
			Width: first.Width, Height: first.Height,
		})
		if err != nil {
			p.closePartial()
			return nil, fmt.Errorf("pipeline: gpu %d decoder: %w", g, err)
		}
		p.decoders = append(p.decoders, dec)

		engine, err := cfg.EngineFactory(netengine.Config{
			GPU: g, NumCUDAStreams: cfg.NumCUDAStreams,
		})
		if err != nil {
			p.closePartial()
			return nil, fmt.Errorf("pipeline: gpu %d net engine: %w", g, err)
		}
		p.engines = append(p.engines, engine)

		p.evalQueues = append(p.evalQueues, queue.New[EvalWorkEntry](0))
	}

	return p, nil
}

// closePartial releases whatever GPU resources Build already
// allocated before a later GPU's allocation failed, so a failed Build
// never leaks device memory or decoder/engine contexts.
func (p *Pipeline) closePartial() {
	for _, pool := range p.pools {
		pool.Close()
	}
	for _, dec := range p.decoders {
		dec.Close()
	}
	for _, eng := range p.engines {
		eng.Close()
	}
}

// LoadQueue returns the queue callers (the distribution coordinator,
// or a single-node driver) push LoadWorkEntry values into.
func (p *Pipeline) LoadQueue() *queue.Queue[LoadWorkEntry] { return p.loadQueue }

// LocalQueueDepth is spec.md §4.7's `local`: load_queue plus
// decode_queue plus the sum of every GPU's eval_queue depth. It backs
// the distribution coordinator's threshold comparison.
func (p *Pipeline) LocalQueueDepth() int {
	depth := p.loadQueue.Size() + p.decodeQueue.Size()
	for _, q := range p.evalQueues {
		depth += q.Size()
	}
	return depth
}

// Push enqueues a LoadWorkEntry for work item index. A thin wrapper so
// distribution.Master/Worker's PushLocal callback has something
// trivial to close over.
func (p *Pipeline) Push(workItemIndex int) {
	p.loadQueue.Push(LoadWorkEntry{WorkItemIndex: workItemIndex})
}

// Start spawns every stage worker goroutine, per spec.md §5:
// LoadWorkers loaders, one decoder and one evaluator per GPU, and
// SaveWorkers savers.
func (p *Pipeline) Start(ctx context.Context) {
	cfg := p.cfg

	p.recorders.load = make([]*profiler.Recorder, cfg.LoadWorkers)
	for i := 0; i < cfg.LoadWorkers; i++ {
		rec := &profiler.Recorder{}
		p.recorders.load[i] = rec
		stage := &LoadStage{
			Plan: cfg.Plan, Backend: cfg.Backend, Dataset: cfg.Dataset,
			In: p.loadQueue, Out: p.decodeQueue, Backoff: cfg.Backoff,
			Logger: cfg.Logger, Recorder: rec,
		}
		p.wgLoad.Add(1)
		go func() { defer p.wgLoad.Done(); stage.Run(ctx) }()
	}

	p.recorders.decode = make([]*profiler.Recorder, cfg.GPUs)
	for g := 0; g < cfg.GPUs; g++ {
		rec := &profiler.Recorder{}
		p.recorders.decode[g] = rec
		stage := &DecodeStage{
			GPU: g, Plan: cfg.Plan, Decoder: p.decoders[g], Pool: p.pools[g],
			FrameSize: p.frameSize, In: p.decodeQueue, Out: p.evalQueues[g],
			Logger: cfg.Logger, Recorder: rec,
		}
		p.wgDecode.Add(1)
		go func() { defer p.wgDecode.Done(); stage.Run(ctx) }()
	}

	p.recorders.eval = make([]*profiler.Recorder, cfg.GPUs)
	for g := 0; g < cfg.GPUs; g++ {
		rec := &profiler.Recorder{}
		p.recorders.eval[g] = rec
		stage := &EvaluateStage{
			GPU: g, Plan: cfg.Plan, Engine: p.engines[g], Pool: p.pools[g],
			FrameSize: p.frameSize, GlobalBatch: cfg.GlobalBatchSize,
			NumCUDAStreams: cfg.NumCUDAStreams, In: p.evalQueues[g], Out: p.saveQueue,
			Logger: cfg.Logger, Recorder: rec,
		}
		p.wgEval.Add(1)
		go func() { defer p.wgEval.Done(); stage.Run(ctx) }()
	}

	p.recorders.save = make([]*profiler.Recorder, cfg.SaveWorkers)
	for i := 0; i < cfg.SaveWorkers; i++ {
		rec := &profiler.Recorder{}
		p.recorders.save[i] = rec
		stage := &SaveStage{
			Plan: cfg.Plan, Backend: cfg.Backend, Job: cfg.Job,
			In: p.saveQueue, Backoff: cfg.Backoff, Logger: cfg.Logger, Recorder: rec,
			Descriptor: cfg.Descriptor,
		}
		p.wgSave.Add(1)
		go func() { defer p.wgSave.Done(); stage.Run(ctx) }()
	}
}

// Shutdown drains and joins every stage in strict pipeline order, per
// spec.md §4.8: load workers (one sentinel each) -> decode workers
// (one per GPU) -> release decoder contexts -> evaluate workers (one
// per GPU) -> save workers (one sentinel each) -> free GPU buffers and
// net engines. Because each stage only exits after draining every
// non-sentinel entry ahead of its sentinel, and sentinels are only
// pushed here after the upstream stage has already joined, no live
// buffer can outlive its consumer.
func (p *Pipeline) Shutdown() {
	for i := 0; i < p.cfg.LoadWorkers; i++ {
		p.loadQueue.Push(LoadSentinel())
	}
	p.wgLoad.Wait()

	for g := 0; g < p.cfg.GPUs; g++ {
		p.decodeQueue.Push(DecodeSentinel())
	}
	p.wgDecode.Wait()

	for _, dec := range p.decoders {
		dec.Close()
	}

	for g := 0; g < p.cfg.GPUs; g++ {
		p.evalQueues[g].Push(EvalSentinel())
	}
	p.wgEval.Wait()

	for i := 0; i < p.cfg.SaveWorkers; i++ {
		p.saveQueue.Push(SaveSentinel())
	}
	p.wgSave.Wait()

	for _, pool := range p.pools {
		pool.Close()
	}
	for _, eng := range p.engines {
		eng.Close()
	}
}

// ProfilerReport assembles this node's spec.md §6 profiler payload
// from every stage worker's Recorder, stamped with the job's wall
// clock bounds by the caller.
func (p *Pipeline) ProfilerReport(startNanos, endNanos int64) profiler.Report {
	toStats := func(recs []*profiler.Recorder) profiler.StageStats {
		out := make([]profiler.Record, len(recs))
		for i, r := range recs {
			out[i] = r.Record()
		}
		return profiler.StageStats{Records: out}
	}
	return profiler.Report{
		StartNanos: startNanos,
		EndNanos:   endNanos,
		Stages: []profiler.StageStats{
			toStats(p.recorders.load),
			toStats(p.recorders.decode),
			toStats(p.recorders.eval),
			toStats(p.recorders.save),
		},
	}
}
