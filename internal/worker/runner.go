package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/allocator"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/config"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/queue"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/runstore"
)

var ErrMalformedMessage = errors.New("无法解析的任务消息")

// SnapshotLoader 读取一次分配所需的数据，由 repository 实现
type SnapshotLoader interface {
	GetTermByID(id int64) (*domain.Term, error)
	GetAllProfessors() ([]*domain.Professor, error)
	GetPendingOfferingsByTermID(termID int64) ([]*domain.Offering, error)
}

type RunStore interface {
	Get(ctx context.Context, id string) (*runstore.Run, error)
	Save(ctx context.Context, run *runstore.Run) error
}

type Publisher interface {
	PublishJSON(ctx context.Context, queue string, v any) error
}

type Runner struct {
	snapshots   SnapshotLoader
	runs        RunStore
	publisher   Publisher
	metrics     *metrics.Metrics
	runTimeout  time.Duration
	saveTimeout time.Duration // 写入最终状态的超时时间，不受 worker 退出的影响
	notify      string
	now         func() time.Time
}

type Option func(r *Runner)

func WithRunTimeout(d time.Duration) Option {
	return func(r *Runner) { r.runTimeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

func NewRunner(cfg *config.Config, snapshots SnapshotLoader, runs RunStore, publisher Publisher, m *metrics.Metrics, opts ...Option) *Runner {
	r := &Runner{
		snapshots:   snapshots,
		runs:        runs,
		publisher:   publisher,
		metrics:     m,
		runTimeout:  time.Duration(cfg.Worker.RunTimeout) * time.Second,
		saveTimeout: time.Duration(cfg.Redis.OperationExpiration) * time.Second,
		notify:      cfg.Email.Notify,
		now:         time.Now,
	}
	if r.saveTimeout <= 0 {
		r.saveTimeout = 10 * time.Second
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle 处理 allocation_queue 中的一条消息
// 返回 ErrMalformedMessage 或 runstore.ErrRunNotFound 时消息应被丢弃，其他错误来自 redis，可以重新投递
func (r *Runner) Handle(ctx context.Context, body []byte) error {
	job := domain.AllocationJobMessage{}
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if job.RunID == "" {
		return fmt.Errorf("%w: 缺少任务 ID", ErrMalformedMessage)
	}

	return r.Process(ctx, job.RunID)
}

func (r *Runner) Process(ctx context.Context, runID string) error {
	run, err := r.runs.Get(ctx, runID)
	if err != nil {
		return err
	}

	switch run.Status {
	case runstore.StatusSucceeded, runstore.StatusFailed:
		// 消息可能被重复投递
		slog.Warn("任务已经结束，跳过", "runID", run.ID, "status", run.Status)
		return nil
	case runstore.StatusRunning:
		// 只有没有被确认的消息才会重新投递，说明上一次执行没有写入结果
		slog.Warn("任务上一次执行被中断，重新执行", "runID", run.ID, "startedAt", run.StartedAt)
	}

	run.MarkRunning(r.now())
	if err := r.runs.Save(ctx, run); err != nil {
		return err
	}
	slog.Info("开始分配任务", "runID", run.ID, "termID", run.TermID)

	term, proposal, err := r.execute(ctx, run)
	if err != nil {
		// worker 正在退出，任务保持 running，消息重新入队后再执行
		if ctx.Err() != nil {
			slog.Warn("分配任务被中断", "runID", run.ID, "error", err)
			return err
		}

		slog.Error("分配任务失败", "runID", run.ID, "error", err)
		run.MarkFailed(err.Error(), r.now())
		if err := r.save(ctx, run); err != nil {
			return err
		}
		r.metrics.RecordRunFailed(run.Duration())
		r.notifyFailed(ctx, run, term, err)
		return nil
	}

	run.MarkSucceeded(proposal, r.now())
	if err := r.save(ctx, run); err != nil {
		return err
	}
	r.metrics.RecordRunSucceeded(run.Duration(), proposal.BestFitness)
	slog.Info("分配任务完成", "runID", run.ID, "bestFitness", proposal.BestFitness, "duration", run.Duration())
	r.notifySucceeded(ctx, run, term)

	return nil
}

// save 写入任务的最终状态，结果已经算出来了，worker 退出也要写完
func (r *Runner) save(ctx context.Context, run *runstore.Run) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.saveTimeout)
	defer cancel()

	if err := r.runs.Save(ctx, run); err != nil {
		return fmt.Errorf("无法保存分配任务 %s: %w", run.ID, err)
	}
	return nil
}

type outcome struct {
	result *allocator.Result
	err    error
}

// execute 读取快照并运行遗传算法，term 在读取失败时为 nil
func (r *Runner) execute(ctx context.Context, run *runstore.Run) (*domain.Term, *allocator.Proposal, error) {
	term, err := r.snapshots.GetTermByID(run.TermID)
	if err != nil {
		return nil, nil, fmt.Errorf("无法读取学期 %d: %w", run.TermID, err)
	}
	professors, err := r.snapshots.GetAllProfessors()
	if err != nil {
		return term, nil, fmt.Errorf("无法读取教师: %w", err)
	}
	offerings, err := r.snapshots.GetPendingOfferingsByTermID(run.TermID)
	if err != nil {
		return term, nil, fmt.Errorf("无法读取待分配的开课: %w", err)
	}

	parameters := run.Parameters
	a, err := allocator.New(&parameters, professors, offerings)
	if err != nil {
		return term, nil, err
	}
	if err := ctx.Err(); err != nil {
		return term, nil, err
	}

	// 遗传算法本身不能被中断，超时后不再等待它的结果
	done := make(chan outcome, 1)
	go func() {
		res, err := a.Allocate()
		done <- outcome{result: res, err: err}
	}()

	timer := time.NewTimer(r.runTimeout)
	defer timer.Stop()

	var o outcome
	select {
	case o = <-done:
	case <-timer.C:
		return term, nil, fmt.Errorf("分配超时（%s）", r.runTimeout)
	case <-ctx.Done():
		return term, nil, ctx.Err()
	}
	if o.err != nil {
		return term, nil, o.err
	}

	proposal, err := allocator.BuildProposal(professors, offerings, o.result)
	if err != nil {
		return term, nil, err
	}

	return term, proposal, nil
}

func (r *Runner) notifySucceeded(ctx context.Context, run *runstore.Run, term *domain.Term) {
	if r.notify == "" {
		return
	}

	r.publishMail(ctx, domain.MailMessage{
		Type: domain.MailTypeAllocationSucceeded,
		To:   r.notify,
		Data: domain.AllocationSucceededMailData{
			RunID:         run.ID,
			TermName:      term.Name,
			OfferingCount: len(run.Proposal.Rows),
			MatchedCount:  run.Proposal.MatchedCount(),
			BestFitness:   run.Proposal.BestFitness,
		},
	})
}

func (r *Runner) notifyFailed(ctx context.Context, run *runstore.Run, term *domain.Term, reason error) {
	if r.notify == "" {
		return
	}

	termName := ""
	if term != nil {
		termName = term.Name
	}
	r.publishMail(ctx, domain.MailMessage{
		Type: domain.MailTypeAllocationFailed,
		To:   r.notify,
		Data: domain.AllocationFailedMailData{
			RunID:    run.ID,
			TermName: termName,
			Reason:   reason.Error(),
		},
	})
}

// 邮件只是通知，发送失败不影响任务结果
func (r *Runner) publishMail(ctx context.Context, msg domain.MailMessage) {
	if err := r.publisher.PublishJSON(ctx, queue.EmailQueue, msg); err != nil {
		slog.Error("无法投递通知邮件", "type", msg.Type, "error", err)
	}
}
