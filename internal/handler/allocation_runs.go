package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/allocator"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/queue"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/runstore"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/utils"
)

// defaultParameters 返回配置中的默认参数，随机数种子为 0 表示每次运行都不同
func (h *Handler) defaultParameters() allocator.Parameters {
	return allocator.Parameters{
		Generations:    h.config.Allocator.Generations,
		PopulationSize: h.config.Allocator.PopulationSize,
		CrossoverRate:  h.config.Allocator.CrossoverRate,
		MutationRate:   h.config.Allocator.MutationRate,
		TournamentSize: h.config.Allocator.TournamentSize,
		GeneSwapRate:   h.config.Allocator.GeneSwapRate,
		Workers:        h.config.Allocator.Workers,
	}
}

func (h *Handler) CreateAllocationRun(w http.ResponseWriter, r *http.Request) {
	term := r.Context().Value(TermCtx).(*domain.Term)

	// 未指定的参数使用默认值
	var req struct {
		Generations    *int32   `json:"generations" validate:"omitempty,min=1,max=10000"`
		PopulationSize *int32   `json:"populationSize" validate:"omitempty,min=1,max=10000"`
		CrossoverRate  *float64 `json:"crossoverRate" validate:"omitempty,min=0,max=1"`
		MutationRate   *float64 `json:"mutationRate" validate:"omitempty,min=0,max=1"`
		TournamentSize *int32   `json:"tournamentSize" validate:"omitempty,min=1"`
		GeneSwapRate   *float64 `json:"geneSwapRate" validate:"omitempty,min=0,max=1"`
		Seed           *uint64  `json:"seed"`
	}

	if err := h.readOptionalJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	parameters := h.defaultParameters()
	if req.Generations != nil {
		parameters.Generations = *req.Generations
	}
	if req.PopulationSize != nil {
		parameters.PopulationSize = *req.PopulationSize
	}
	if req.CrossoverRate != nil {
		parameters.CrossoverRate = *req.CrossoverRate
	}
	if req.MutationRate != nil {
		parameters.MutationRate = *req.MutationRate
	}
	if req.TournamentSize != nil {
		parameters.TournamentSize = *req.TournamentSize
	}
	if req.GeneSwapRate != nil {
		parameters.GeneSwapRate = *req.GeneSwapRate
	}
	if req.Seed != nil {
		parameters.Seed = *req.Seed
	}

	// 提前检查，避免把注定失败的任务投递给 worker
	offerings, err := h.repository.GetPendingOfferingsByTermID(term.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if len(offerings) == 0 {
		h.errorResponse(w, r, "没有待分配的开课")
		return
	}

	professors, err := h.repository.GetAllProfessors()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if len(professors) == 0 {
		h.errorResponse(w, r, "没有可分配的教师")
		return
	}

	run := runstore.NewRun(term.ID, parameters, time.Now())

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if err := h.runs.Save(ctx, run); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 将任务投递到消息队列
	if err := h.publisher.PublishJSON(r.Context(), queue.AllocationQueue, domain.AllocationJobMessage{RunID: run.ID}); err != nil {
		run.MarkFailed("无法投递分配任务", time.Now())
		if err := h.runs.Save(ctx, run); err != nil {
			slog.Error("无法保存分配任务", "runID", run.ID, "error", err)
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "分配任务已创建", run)
}

func (h *Handler) GetAllocationRun(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(AllocationRunCtx).(*runstore.Run)

	h.successResponse(w, r, "获取分配任务成功", run)
}

type CommitResult struct {
	OfferingID  int64  `json:"offeringID"`
	ProfessorID int64  `json:"professorID"`
	Success     bool   `json:"success"`
	Message     string `json:"message"`
}

// CommitAllocationRun 逐行提交排课负责人选中的分配结果，某一行失败不影响其他行
func (h *Handler) CommitAllocationRun(w http.ResponseWriter, r *http.Request) {
	run := r.Context().Value(AllocationRunCtx).(*runstore.Run)

	var req struct {
		OfferingIDs []int64 `json:"offeringIDs" validate:"required,min=1"`
	}

	if err := h.readJSON(w, r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	offeringIDs, err := utils.NormalizeOfferingSelection(req.OfferingIDs)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	switch run.Status {
	case runstore.StatusPending, runstore.StatusRunning:
		h.errorResponse(w, r, "分配任务尚未完成")
		return
	case runstore.StatusFailed:
		h.errorResponse(w, r, "分配任务失败，无法提交")
		return
	}

	results := make([]CommitResult, 0, len(offeringIDs))
	done := make([]int64, 0, len(offeringIDs)) // 已经有教师的行，不再出现在方案中

	for _, offeringID := range offeringIDs {
		row, ok := run.Proposal.Row(offeringID)
		if !ok {
			results = append(results, CommitResult{OfferingID: offeringID, Message: "该开课不在分配方案中"})
			h.metrics.RecordCommit(false)
			continue
		}

		result := CommitResult{OfferingID: offeringID, ProfessorID: row.ProfessorID}
		allocation := &domain.Allocation{OfferingID: row.OfferingID, ProfessorID: row.ProfessorID}

		if err := h.repository.InsertAllocation(allocation); err != nil {
			var pgErr *pgconn.PgError
			switch {
			case errors.As(err, &pgErr) && pgErr.ConstraintName == "allocations_offering_id_key":
				result.Message = "该开课已经分配过教师"
				done = append(done, offeringID)
			case errors.As(err, &pgErr) && pgErr.Code == "23503":
				result.Message = "开课或教师已不存在"
			default:
				slog.Error("无法写入分配结果", "offeringID", offeringID, "error", err)
				result.Message = "服务器内部错误"
			}
			results = append(results, result)
			h.metrics.RecordCommit(false)
			continue
		}

		result.Success = true
		result.Message = "提交成功"
		results = append(results, result)
		done = append(done, offeringID)
		h.metrics.RecordCommit(true)
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	// 在最新的方案上删除已经有教师的行，避免覆盖同时进行的另一次提交
	err = h.runs.Update(ctx, run.ID, func(latest *runstore.Run) error {
		if latest.Proposal != nil {
			latest.Proposal.RemoveRows(done)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, runstore.ErrRunNotFound):
			// 任务已经过期，分配结果已经写入数据库
			slog.Warn("分配任务已过期，无法更新分配方案", "runID", run.ID)
		default:
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "提交完成", results)
}
