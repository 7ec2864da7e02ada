package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/allocator"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
)

func (h *Handler) GetAllTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := h.repository.GetAllTerms()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有学期成功", terms)
}

func (h *Handler) GetTerm(w http.ResponseWriter, r *http.Request) {
	term := r.Context().Value(TermCtx).(*domain.Term)

	h.successResponse(w, r, "获取学期成功", term)
}

func (h *Handler) GetPendingOfferings(w http.ResponseWriter, r *http.Request) {
	term := r.Context().Value(TermCtx).(*domain.Term)

	offerings, err := h.repository.GetPendingOfferingsByTermID(term.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	professors, err := h.repository.GetAllProfessors()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 没有任何教师具备的能力领域在运行前提示给排课负责人
	h.successResponse(w, r, "获取待分配的开课成功", map[string]any{
		"offerings":      offerings,
		"uncoveredAreas": allocator.UncoveredAreas(professors, offerings),
	})
}

func (h *Handler) GetAllocations(w http.ResponseWriter, r *http.Request) {
	term := r.Context().Value(TermCtx).(*domain.Term)

	allocations, err := h.repository.GetAllocationsByTermID(term.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取分配结果成功", allocations)
}
