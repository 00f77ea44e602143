package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Postgres     DBConfig
	Redis        RedisConfig
	S3           S3Config
	Logger       Logger
	Engine       EngineConfig
	Distribution DistributionConfig
}

type ServerConfig struct {
	AppVersion   string
	Port         string
	Mode         string
	JwtSecretKey string
}

// EngineConfig holds the tunable constants spec.md §6 names for the
// core pipeline: worker counts per stage, GPU count, the GPU buffer
// pool depth, work item sizing, and evaluate-stage batching.
type EngineConfig struct {
	LoadWorkersPerNode int
	SaveWorkersPerNode int
	GPUsPerNode        int
	// LoadBuffers is spec.md's LOAD_BUFFERS: the per-GPU depth of the
	// decode buffer pool. It is set independently of
	// Distribution.TasksInQueuePerGPU, which alone feeds the
	// distribution threshold; the two values are not tied together.
	LoadBuffers int
	// WorkItemSize is spec.md's frames_per_work_item().
	WorkItemSize       int
	GlobalBatchSize    int
	NumCUDAStreams     int
	NetDescriptor      string
	MaxCPUUsagePercent float64
	// OutputFloatsPerFrame and NetInputDim describe the network named by
	// NetDescriptor: how many floats its forward pass emits per frame,
	// and the square input resolution frames are preprocessed to. A
	// real netengine.Factory would read both out of the descriptor
	// file itself; the deterministic engine this repo wires needs them
	// supplied explicitly since it never parses a real descriptor.
	OutputFloatsPerFrame int
	NetInputDim          int
}

// DistributionConfig configures the master/worker coordinator
// (spec.md §4.7) and its Redis-backed message channel.
type DistributionConfig struct {
	TasksInQueuePerGPU int
	RequestTimeout     int // seconds the master's ReceiveRequest blocks per BRPOP before rechecking its local queue
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PgDriver string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
}

type S3Config struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	DatasetBucket string
	JobBucket     string
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.Is(err, configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
