package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rushteam/vidrec/core"
	"github.com/rushteam/vidrec/logging"
	"github.com/rushteam/vidrec/pkg/tracing"
)

// EnvPrefix 是环境变量前缀，例如 VIDREC_SOURCE_DSN 对应 source.dsn。
const EnvPrefix = "VIDREC"

// AppConfig 是 vidrec 进程的全部配置。
// 优先级：命令行 flag > 环境变量 > 配置文件 > 默认值。
type AppConfig struct {
	Log      logging.Config `mapstructure:"log"`
	Source   SourceConfig   `mapstructure:"source"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Delivery DeliveryConfig `mapstructure:"delivery"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Tracing  tracing.Config `mapstructure:"tracing"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Rank     RankSettings   `mapstructure:"rank"`
}

// SourceConfig 选择数据源。
type SourceConfig struct {
	// Kind: sql 或 redis
	Kind string `mapstructure:"kind"`

	// Driver: sqlite3 或 postgres（Kind=sql 时有效）
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`

	// Timeout 单次读取超时
	Timeout time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// DeliveryConfig 是排序结果的投递配置。
type DeliveryConfig struct {
	// Kind: none, stdout, kafka, nats
	Kind string `mapstructure:"kind"`

	// Topic 队列/主题名
	Topic string `mapstructure:"topic"`

	Brokers []string `mapstructure:"brokers"`
	NATSURL string   `mapstructure:"nats_url"`

	// JetStream 为 true 时使用 NATS JetStream 持久化投递
	JetStream bool `mapstructure:"jetstream"`

	Timeout time.Duration `mapstructure:"timeout"`
	Breaker BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig 是投递熔断配置，MaxFailures <= 0 时不启用熔断。
type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// PipelineConfig 指定 pipeline 配置文件，为空时使用 DefaultPipeline。
type PipelineConfig struct {
	File string `mapstructure:"file"`
}

// RankSettings 是打分参数，实现 core.RankConfig。<= 0 的字段回落到默认值。
type RankSettings struct {
	TopN        int `mapstructure:"top_n"`
	Workers     int `mapstructure:"workers"`
	MaxItems    int `mapstructure:"max_items"`
	MinTokenLen int `mapstructure:"min_token_len"`
}

func (r *RankSettings) DefaultTopN() int {
	if r.TopN <= 0 {
		return core.DefaultTopN
	}
	return r.TopN
}

func (r *RankSettings) DefaultWorkers() int {
	if r.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return r.Workers
}

func (r *RankSettings) DefaultMaxItems() int {
	if r.MaxItems <= 0 {
		return (&core.DefaultRankConfig{}).DefaultMaxItems()
	}
	return r.MaxItems
}

func (r *RankSettings) DefaultMinTokenLen() int {
	if r.MinTokenLen <= 0 {
		return 2
	}
	return r.MinTokenLen
}

var _ core.RankConfig = (*RankSettings)(nil)

// SetDefaults 写入默认值。
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("source.kind", "sql")
	v.SetDefault("source.driver", "sqlite3")
	v.SetDefault("source.dsn", "vidrec.db")
	v.SetDefault("source.timeout", 10*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.key_prefix", "vidrec")

	v.SetDefault("delivery.kind", "stdout")
	v.SetDefault("delivery.topic", "recommend_queue")
	v.SetDefault("delivery.brokers", []string{"localhost:9092"})
	v.SetDefault("delivery.nats_url", "nats://localhost:4222")
	v.SetDefault("delivery.timeout", 10*time.Second)
	v.SetDefault("delivery.breaker.max_failures", 5)
	v.SetDefault("delivery.breaker.open_timeout", 30*time.Second)

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 15*time.Second)

	v.SetDefault("tracing.sample_rate", 1.0)
	v.SetDefault("tracing.service_name", "vidrec")

	v.SetDefault("rank.top_n", core.DefaultTopN)
	v.SetDefault("rank.max_items", 10000)
	v.SetDefault("rank.min_token_len", 2)
}

// LoadApp 读取配置：默认值、可选配置文件（file 为空时跳过）、VIDREC_ 环境变量。
// flag 绑定由调用方在 v 上完成。
func LoadApp(v *viper.Viper, file string) (*AppConfig, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验枚举类配置项。
func (c *AppConfig) Validate() error {
	switch c.Source.Kind {
	case "sql":
		switch c.Source.Driver {
		case "sqlite3", "postgres":
		default:
			return fmt.Errorf("source.driver: unsupported driver %q (sqlite3, postgres)", c.Source.Driver)
		}
	case "redis":
	default:
		return fmt.Errorf("source.kind: unsupported kind %q (sql, redis)", c.Source.Kind)
	}

	switch c.Delivery.Kind {
	case "none", "stdout", "kafka", "nats":
	case "gochannel":
		return fmt.Errorf("delivery.kind: gochannel has no subscriber outside the process, use kafka or nats")
	default:
		return fmt.Errorf("delivery.kind: unsupported kind %q (none, stdout, kafka, nats)", c.Delivery.Kind)
	}
	if c.Delivery.Kind != "none" && c.Delivery.Topic == "" {
		return fmt.Errorf("delivery.topic: required")
	}
	return nil
}
