package employee

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"employee-service/internal/httputil"
	"employee-service/internal/metrics"
	"employee-service/internal/upload"

	"github.com/go-chi/chi/v5"
)

// parseMemoryLimit is how much of a multipart body net/http keeps in memory
// before spilling to temp files. The image itself is streamed to the sink.
const parseMemoryLimit = 4 << 20

// imageFormField is the historical name of the file input on the employee form.
const imageFormField = "imgUpload"

type Handler struct {
	service Service
	sink    *upload.Sink
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewHandler(service Service, sink *upload.Sink, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		sink:    sink,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/employees", h.CreateEmployee)
	router.Get("/employees", h.GetAllEmployees)
	router.Get("/employees/page", h.GetEmployeePage)
	router.Get("/employees/{id}", h.GetEmployee)
	router.Put("/employees/{id}", h.UpdateEmployee)
	router.Delete("/employees/{id}", h.DeleteEmployee)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	candidate, staged, ok := h.parseCandidate(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "creating employee", "email", candidate.Email)
	created, err := h.service.Create(r.Context(), candidate)
	if err != nil {
		h.sink.Remove(staged)
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordEmployeeCreated(r.Context())
	httputil.RespondWithJSON(w, http.StatusOK, created)
}

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching all employees")

	employees, err := h.service.GetAll(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if employees == nil {
		employees = []Employee{}
	}

	h.metrics.RecordListViewed(r.Context())
	httputil.RespondWithJSON(w, http.StatusOK, employees)
}

func (h *Handler) GetEmployeePage(w http.ResponseWriter, r *http.Request) {
	query := ListQuery{
		Search:  r.URL.Query().Get("q"),
		SortKey: r.URL.Query().Get("sort"),
		SortDir: r.URL.Query().Get("dir"),
	}
	query.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	query.PageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))

	page, err := h.service.ListPage(r.Context(), query)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordPageViewed(r.Context())
	httputil.RespondWithJSON(w, http.StatusOK, page)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondWithMsg(w, http.StatusNotFound, "Employee not found")
		return
	}

	h.logger.InfoContext(r.Context(), "fetching employee by ID", "id", id)
	employee, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordEmployeeViewed(r.Context())
	httputil.RespondWithJSON(w, http.StatusOK, employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondWithMsg(w, http.StatusNotFound, "Employee not found")
		return
	}

	candidate, staged, ok := h.parseCandidate(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "updating employee", "id", id)
	updated, err := h.service.Update(r.Context(), id, candidate)
	if err != nil {
		h.sink.Remove(staged)
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordEmployeeUpdated(r.Context())
	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondWithMsg(w, http.StatusNotFound, "Employee not found")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting employee", "id", id)
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.metrics.RecordEmployeeDeleted(r.Context())
	httputil.RespondWithMsg(w, http.StatusOK, "Employee removed")
}

// parseCandidate reads the multipart form and stages the uploaded image, if
// any. On a malformed body it writes the error response itself and reports
// ok=false. The staged file is returned so failed submissions can discard it.
func (h *Handler) parseCandidate(w http.ResponseWriter, r *http.Request) (CandidateFields, *upload.File, bool) {
	if err := r.ParseMultipartForm(parseMemoryLimit); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return CandidateFields{}, nil, false
	}

	candidate := CandidateFields{
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		MobileNo:    r.FormValue("mobileNo"),
		Designation: r.FormValue("designation"),
		Gender:      r.FormValue("gender"),
		Course:      r.FormValue("course"),
	}

	file, header, err := r.FormFile(imageFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return candidate, nil, true
	}
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid image upload")
		return CandidateFields{}, nil, false
	}
	defer file.Close()

	staged, err := h.sink.Stage(file, header.Filename)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stage upload", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Server Error")
		return CandidateFields{}, nil, false
	}

	candidate.Image = staged
	return candidate, staged, true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		h.logger.InfoContext(r.Context(), "submission rejected", "errors", len(verrs))
		for _, fe := range verrs {
			if fe.Code == CodeUnsupportedMediaType || fe.Code == CodeFileTooLarge {
				h.metrics.RecordUploadRejected(r.Context())
			}
		}
		httputil.RespondWithJSON(w, http.StatusBadRequest, map[string]any{"errors": verrs})
		return
	}
	if errors.Is(err, ErrEmployeeNotFound) {
		h.logger.InfoContext(r.Context(), "employee not found")
		httputil.RespondWithMsg(w, http.StatusNotFound, "Employee not found")
		return
	}
	h.logger.ErrorContext(r.Context(), "internal error", "error", err)
	httputil.RespondWithError(w, http.StatusInternalServerError, "Server Error")
}
