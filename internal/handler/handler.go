package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/config"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/domain"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/faculty-allocation/backend/internal/runstore"
	"golang.org/x/crypto/bcrypt"
)

// Repository 是 handler 用到的数据库操作，由 repository.Repository 实现
type Repository interface {
	GetAllCompetencyAreas() ([]*domain.CompetencyArea, error)
	GetAllProfessors() ([]*domain.Professor, error)
	GetAllTerms() ([]*domain.Term, error)
	GetTermByID(id int64) (*domain.Term, error)
	GetPendingOfferingsByTermID(termID int64) ([]*domain.Offering, error)
	GetAllocationsByTermID(termID int64) ([]*domain.Allocation, error)
	InsertAllocation(allocation *domain.Allocation) error
}

type RunStore interface {
	Get(ctx context.Context, id string) (*runstore.Run, error)
	Save(ctx context.Context, run *runstore.Run) error
	Update(ctx context.Context, id string, fn func(run *runstore.Run) error) error
}

type Publisher interface {
	PublishJSON(ctx context.Context, queue string, v any) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	repository Repository
	translator ut.Translator
	runs       RunStore
	publisher  Publisher
	metrics    *metrics.Metrics

	coordinatorPasswordHash []byte
	metricsHandler          http.Handler

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo Repository, runs RunStore, publisher Publisher, m *metrics.Metrics, metricsHandler http.Handler) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	// 配置中是明文密码，只在内存中保留哈希
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Coordinator.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		repository: repo,
		translator: trans,
		runs:       runs,
		publisher:  publisher,
		metrics:    m,

		coordinatorPasswordHash: passwordHash,
		metricsHandler:          metricsHandler,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Method(http.MethodGet, "/metrics", h.metricsHandler)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/competency-areas", h.GetAllCompetencyAreas)
		r.Get("/professors", h.GetAllProfessors)

		r.Route("/terms", func(r chi.Router) {
			r.Get("/", h.GetAllTerms)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.term)
				r.Get("/", h.GetTerm)
				r.Get("/pending-offerings", h.GetPendingOfferings)
				r.Get("/allocations", h.GetAllocations)
				r.Post("/allocation-runs", h.CreateAllocationRun)
			})
		})

		r.Route("/allocation-runs/{runID}", func(r chi.Router) {
			r.Use(h.allocationRun)
			r.Get("/", h.GetAllocationRun)
			r.Post("/commit", h.CommitAllocationRun)
		})
	})
}
