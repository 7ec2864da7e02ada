package main

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/config"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/queue"
	"github.com/wneessen/go-mail"
)

// 邮件类型对应的模板和主题
var mailTemplates = map[string]struct {
	file    string
	subject string
}{
	domain.MailTypeAllocationSucceeded: {
		file:    "./templates/allocation_succeeded.html",
		subject: "教师分配系统 - 分配方案已生成",
	},
	domain.MailTypeAllocationFailed: {
		file:    "./templates/allocation_failed.html",
		subject: "教师分配系统 - 分配任务失败",
	},
}

func buildMail(from string, message domain.MailMessage) (*mail.Msg, error) {
	t, ok := mailTemplates[message.Type]
	if !ok {
		return nil, errors.New("不支持的邮件类型: " + message.Type)
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, err
	}
	if err := m.To(message.To); err != nil {
		return nil, err
	}

	tmpl, err := template.ParseFiles(t.file)
	if err != nil {
		return nil, err
	}
	if err := m.SetBodyHTMLTemplate(tmpl, message.Data); err != nil {
		return nil, err
	}
	m.Subject(t.subject)

	return m, nil
}

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
	if cfg.Email.SMTP.Host == "" || cfg.Email.SMTP.Username == "" {
		logger.Error("未配置 SMTP 服务器，无法启动 mail worker")
		return
	}

	/**********************************************
	 * 创建邮件客户端
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("无法创建邮件客户端", "error", err)
		return
	}
	defer client.Close()

	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("无法连接到邮件服务器", "error", err)
		return
	}

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

	if err := queue.Declare(ch, queue.EmailQueue); err != nil {
		logger.Error("无法声明队列", "error", err)
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		queue.EmailQueue, // 队列
		"",               // 消费者标识，由 RabbitMQ 自动分配
		false,            // 手动确认消息
		false,            // 是否独占队列
		false,            // RabbitMQ 不支持这个参数
		false,            // 是否不等待
		nil,              // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", "error", err)
		return
	}

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
				logger.Info("收到消息", "message", string(msg.Body))

				message := domain.MailMessage{}
				if err := json.Unmarshal(msg.Body, &message); err != nil {
					logger.Error("邮件信息反序列化失败", "error", err)
					_ = msg.Nack(false, false)
					continue
				}

				m, err := buildMail(cfg.Email.SMTP.Username, message)
				if err != nil {
					logger.Error("无法构建邮件", "type", message.Type, "error", err)
					_ = msg.Nack(false, false)
					continue
				}

				if err := client.DialAndSend(m); err != nil {
					logger.Error("邮件发送失败", "error", err)
					_ = msg.Nack(false, true) // 重新入队
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("等待消息...（按 CTRL+C 退出）")
	<-sigChan

	logger.Info("正在关闭 mail worker...")
	cancel()
	wg.Wait()
	logger.Info("mail worker 已成功关闭")
}
