package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	// 排课负责人账号，系统只有这一个账号
	Coordinator struct {
		Username string `env:"USERNAME" envDefault:"coordinator"`
		Password string `env:"PASSWORD,required"`
	} `envPrefix:"COORDINATOR_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"43200"` // 12 小时
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Email struct {
		Notify string `env:"NOTIFY"` // 分配完成后通知的邮箱，为空则不发邮件
		SMTP   struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD,required"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
	} `envPrefix:"REDIS_"`
	// 未指定参数时使用的遗传算法默认参数
	Allocator struct {
		Generations    int32   `env:"GENERATIONS" envDefault:"50"`
		PopulationSize int32   `env:"POPULATION_SIZE" envDefault:"100"`
		CrossoverRate  float64 `env:"CROSSOVER_RATE" envDefault:"0.7"`
		MutationRate   float64 `env:"MUTATION_RATE" envDefault:"0.2"`
		TournamentSize int32   `env:"TOURNAMENT_SIZE" envDefault:"3"`
		GeneSwapRate   float64 `env:"GENE_SWAP_RATE" envDefault:"0.05"`
		Workers        int32   `env:"WORKERS" envDefault:"4"`
	} `envPrefix:"ALLOCATOR_"`
	Worker struct {
		RunTimeout  int    `env:"RUN_TIMEOUT" envDefault:"300"` // 5 分钟
		MetricsPort string `env:"METRICS_PORT" envDefault:"9100"`
	} `envPrefix:"WORKER_"`
	Run struct {
		Expiration int `env:"EXPIRATION" envDefault:"86400"` // 1 天
	} `envPrefix:"RUN_"`
	Seed struct {
		Professors int `env:"PROFESSORS" envDefault:"30"`
		Courses    int `env:"COURSES" envDefault:"40"`
		Offerings  int `env:"OFFERINGS" envDefault:"60"`
	} `envPrefix:"SEED_"`
}

func LoadConfig() (*Config, error) {
	// .env 文件是可选的，已经存在的环境变量不会被覆盖
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
