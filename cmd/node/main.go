// Command node runs one cluster node's engine process: it builds the
// local four-stage pipeline (internal/pipeline), joins the cluster's
// master/worker work distribution (internal/distribution), writes its
// own profiler report, and on rank 0 assembles and persists the job's
// final JobDescriptor once every node has drained, per spec.md §§4,7,8.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sridhargunnam/framefeatures/internal/config"
	"github.com/sridhargunnam/framefeatures/internal/dataset"
	"github.com/sridhargunnam/framefeatures/internal/decoder"
	"github.com/sridhargunnam/framefeatures/internal/distribution"
	"github.com/sridhargunnam/framefeatures/internal/gpubuf"
	"github.com/sridhargunnam/framefeatures/internal/jobdescriptor"
	"github.com/sridhargunnam/framefeatures/internal/netengine"
	"github.com/sridhargunnam/framefeatures/internal/pipeline"
	"github.com/sridhargunnam/framefeatures/internal/profiler"
	"github.com/sridhargunnam/framefeatures/internal/storage"
	"github.com/sridhargunnam/framefeatures/internal/storage/localfs"
	"github.com/sridhargunnam/framefeatures/internal/storage/s3backend"
	"github.com/sridhargunnam/framefeatures/internal/workplan"
	"github.com/sridhargunnam/framefeatures/pkg/db/redis"
	"github.com/sridhargunnam/framefeatures/pkg/logger"
	"github.com/sridhargunnam/framefeatures/pkg/utils"
)

func main() {
	job := flag.String("job", "", "job name; output paths are namespaced under this")
	datasetName := flag.String("dataset", "", "dataset name to process")
	rank := flag.Int("rank", 0, "this node's rank; rank 0 is the distribution master")
	numNodes := flag.Int("num-nodes", 1, "total number of nodes in this job's cluster")
	dataDir := flag.String("data-dir", "./data", "local filesystem root, used when S3 is not configured")
	flag.Parse()

	if *job == "" || *datasetName == "" {
		log.Fatalf("node: -job and -dataset are required")
	}

	cfgFile, err := config.LoadConfig("config.yml")
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("node rank %d starting job %s on dataset %s", *rank, *job, *datasetName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Infof("node rank %d: shutting down on signal", *rank)
		cancel()
	}()

	backend := newBackend(cfg, *dataDir)

	videos, err := dataset.Load(ctx, backend, *datasetName)
	if err != nil {
		appLogger.Fatalf("node: load dataset %s: %v", *datasetName, err)
	}

	plan, err := workplan.Build(*datasetName, videos, cfg.Engine.WorkItemSize)
	if err != nil {
		appLogger.Fatalf("node: build work plan: %v", err)
	}
	appLogger.Infof("node rank %d: work plan has %d items across %d videos", *rank, plan.Len(), len(plan.Videos))

	if ok, pct := utils.CheckCPUUsage(cfg.Engine.MaxCPUUsagePercent); !ok {
		appLogger.Infof("node rank %d: host CPU at %.1f%%, above MaxCPUUsagePercent %.1f%%; starting anyway", *rank, pct, cfg.Engine.MaxCPUUsagePercent)
	}

	descriptor := jobdescriptor.New(*datasetName)

	p, err := pipeline.Build(pipeline.Config{
		Plan: plan, Backend: backend, Dataset: *datasetName, Job: *job,
		Backoff: storage.DefaultBackoffConfig(),

		LoadWorkers: cfg.Engine.LoadWorkersPerNode, SaveWorkers: cfg.Engine.SaveWorkersPerNode,
		GPUs: cfg.Engine.GPUsPerNode, LoadBuffers: cfg.Engine.LoadBuffers,
		WorkItemSize: cfg.Engine.WorkItemSize,

		GlobalBatchSize: cfg.Engine.GlobalBatchSize, NumCUDAStreams: cfg.Engine.NumCUDAStreams,

		DecoderFactory: decoder.NewMockFactory(gpubuf.FrameSize(plan.Videos[0].Width, plan.Videos[0].Height)),
		EngineFactory:  netengine.NewMockFactory(cfg.Engine.OutputFloatsPerFrame, cfg.Engine.NetInputDim),
		Allocator:      gpubuf.HostAllocator{},

		Descriptor: descriptor,
		Logger:     appLogger,
	})
	if err != nil {
		appLogger.Fatalf("node: build pipeline: %v", err)
	}

	startNanos := time.Now().UnixNano()
	p.Start(ctx)

	threshold := cfg.Engine.GPUsPerNode * cfg.Distribution.TasksInQueuePerGPU

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("node: connect redis: %v", err)
	}
	defer redisClient.Close()

	receiveTimeout := time.Duration(cfg.Distribution.RequestTimeout) * time.Second
	channel := distribution.NewRedisChannel(redisClient, *job, receiveTimeout)

	if *rank == 0 {
		master := &distribution.Master{
			TotalWorkItems:  plan.Len(),
			NumWorkers:      *numNodes - 1,
			Threshold:       threshold,
			LocalQueueDepth: p.LocalQueueDepth,
			PushLocal:       p.Push,
			Channel:         channel,
			Logger:          appLogger,
		}
		if err := master.Run(ctx); err != nil {
			appLogger.Fatalf("node rank 0: master run: %v", err)
		}
	} else {
		worker := &distribution.Worker{
			Rank:            *rank,
			Threshold:       threshold,
			LocalQueueDepth: p.LocalQueueDepth,
			PushLocal:       p.Push,
			Channel:         channel,
			Logger:          appLogger,
		}
		if err := worker.Run(ctx); err != nil {
			appLogger.Fatalf("node rank %d: worker run: %v", *rank, err)
		}
	}

	p.Shutdown()
	endNanos := time.Now().UnixNano()

	if err := writeProfilerReport(ctx, backend, *job, *rank, p.ProfilerReport(startNanos, endNanos)); err != nil {
		appLogger.Errorf("node rank %d: write profiler report: %v", *rank, err)
	}

	if *rank == 0 {
		if err := descriptor.Validate(plan, cfg.Engine.WorkItemSize); err != nil {
			appLogger.Fatalf("node rank 0: job descriptor invariant violated: %v", err)
		}
		if err := descriptor.Write(ctx, backend, *job); err != nil {
			appLogger.Fatalf("node rank 0: write job descriptor: %v", err)
		}
		appLogger.Infof("node rank 0: job %s complete", *job)
	}
}

func newBackend(cfg *config.Config, dataDir string) storage.Backend {
	if cfg.S3.Endpoint != "" || cfg.S3.DatasetBucket != "" {
		client, err := s3backend.NewClient(context.Background(), cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
		if err != nil {
			log.Fatalf("node: build s3 client: %v", err)
		}
		return s3backend.New(client, cfg.S3.DatasetBucket)
	}
	return localfs.New(dataDir)
}

func writeProfilerReport(ctx context.Context, backend storage.Backend, job string, rank int, report profiler.Report) error {
	var buf bytes.Buffer
	if err := profiler.Write(&buf, report); err != nil {
		return fmt.Errorf("encode profiler report: %w", err)
	}

	f, err := backend.OpenWrite(ctx, storage.JobProfilerPath(job, rank))
	if err != nil {
		return fmt.Errorf("open profiler report: %w", err)
	}
	defer f.Close()

	if _, err := f.Append(ctx, buf.Bytes()); err != nil {
		return fmt.Errorf("append profiler report: %w", err)
	}
	return f.Save(ctx)
}
