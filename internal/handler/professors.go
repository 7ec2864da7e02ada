package handler

import "net/http"

func (h *Handler) GetAllProfessors(w http.ResponseWriter, r *http.Request) {
	professors, err := h.repository.GetAllProfessors()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有教师成功", professors)
}

func (h *Handler) GetAllCompetencyAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.repository.GetAllCompetencyAreas()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有能力领域成功", areas)
}
