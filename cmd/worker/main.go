package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/config"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/queue"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/repository"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/runstore"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/worker"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", "error", err)
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := repository.OpenDB(context.Background(), cfg)
	if err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}
	defer dbpool.Close()

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", "error", err)
		return
	}
	defer ch.Close()

	if err := queue.Declare(ch, queue.AllocationQueue, queue.EmailQueue); err != nil {
		logger.Error("无法声明队列", "error", err)
		return
	}

	// 遗传算法占用大量 CPU，一次只处理一个任务
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Error("无法设置预取数量", "error", err)
		return
	}

	msgs, err := ch.Consume(
		queue.AllocationQueue, // 队列
		"",                    // 消费者标识，由 RabbitMQ 自动分配
		false,                 // 手动确认消息
		false,                 // 是否独占队列
		false,                 // RabbitMQ 不支持这个参数
		false,                 // 是否不等待
		nil,                   // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", "error", err)
		return
	}

	/**********************************************
	 * 暴露 metrics
	 **********************************************/
	m := metrics.New(prometheus.DefaultRegisterer)

	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Worker.MetricsPort),
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动 metrics 服务器", "error", err)
		}
	}()

	runner := worker.NewRunner(
		cfg,
		repository.NewRepository(cfg, dbpool),
		runstore.New(rdb, time.Duration(cfg.Run.Expiration)*time.Second),
		queue.NewPublisher(ch, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second),
		m,
	)

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Error("消息通道已关闭")
					return
				}
				// 正在退出时不再开始新的任务，消息留给下一次启动
				if ctx.Err() != nil {
					_ = msg.Nack(false, true)
					return
				}
				logger.Info("收到分配任务", "message", string(msg.Body))

				if err := runner.Handle(ctx, msg.Body); err != nil {
					switch {
					case errors.Is(err, worker.ErrMalformedMessage), errors.Is(err, runstore.ErrRunNotFound):
						logger.Error("丢弃无法处理的消息", "error", err)
						_ = msg.Nack(false, false)
					default:
						// redis 暂时不可用或者 worker 正在退出，任务保持可恢复的状态，稍后重试
						logger.Error("处理分配任务失败", "error", err)
						_ = msg.Nack(false, true)
					}
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("等待分配任务...（按 CTRL+C 退出）")
	<-sigChan

	// 优雅退出
	logger.Info("正在关闭 allocation worker...")
	cancel()
	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = metricsSrv.Shutdown(shutdownCtx)

	logger.Info("allocation worker 已成功关闭")
}
