package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	jobsdomain "tutormatch-go/internal/domain/jobs"
	"tutormatch-go/internal/domain/matching"
	"tutormatch-go/internal/transport/httpserver/middleware"
)

type createJobRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Target       string `json:"target"`
	Region       string `json:"region"`
	Payment      int64  `json:"payment"`
	PaymentCycle string `json:"payment_cycle"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Schedule     string `json:"schedule"`
}

type updateJobRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Target       *string `json:"target"`
	Region       *string `json:"region"`
	Payment      *int64  `json:"payment"`
	PaymentCycle *string `json:"payment_cycle"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Schedule     *string `json:"schedule"`
}

type attachCategoriesRequest struct {
	CategoryIDs []string `json:"category_ids"`
}

type jobResponse struct {
	ID             string     `json:"id"`
	RequesterID    string     `json:"requester_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Target         string     `json:"target,omitempty"`
	Region         string     `json:"region,omitempty"`
	Payment        int64      `json:"payment"`
	PaymentCycle   string     `json:"payment_cycle"`
	StartDate      string     `json:"start_date,omitempty"`
	EndDate        string     `json:"end_date,omitempty"`
	Schedule       string     `json:"schedule,omitempty"`
	Status         string     `json:"status"`
	MatchedTutorID *string    `json:"matched_tutor_id,omitempty"`
	MatchedAt      *time.Time `json:"matched_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type jobListResponse struct {
	Jobs     []jobResponse `json:"jobs"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type candidateResponse struct {
	TutorID     string  `json:"tutor_id"`
	RegionScore float64 `json:"region_score"`
	GenderScore float64 `json:"gender_score"`
	Score       float64 `json:"score"`
}

func (h *Handlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createJobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	startDate, err := parseDateField(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "start_date must be YYYY-MM-DD")
		return
	}
	endDate, err := parseDateField(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "end_date must be YYYY-MM-DD")
		return
	}

	job, err := h.Jobs.CreateJob(r.Context(), caller, jobsdomain.CreateJobInput{
		Title:        req.Title,
		Description:  req.Description,
		Target:       req.Target,
		Region:       req.Region,
		Payment:      req.Payment,
		PaymentCycle: req.PaymentCycle,
		StartDate:    startDate,
		EndDate:      endDate,
		Schedule:     req.Schedule,
	})
	if err != nil {
		h.writeJobError(w, "jobs.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toJobResponse(job))
}

func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	job, err := h.Jobs.GetJob(r.Context(), caller, chi.URLParam(r, "jobID"))
	if err != nil {
		h.writeJobError(w, "jobs.get", err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(job))
}

func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query := r.URL.Query()

	page, pageSize, limit, offset, err := parsePagination(query.Get("page"), query.Get("page_size"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "from must be YYYY-MM-DD")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "to must be YYYY-MM-DD")
		return
	}

	filter := jobsdomain.ListFilter{
		From:       from,
		To:         to,
		CategoryID: query.Get("category_id"),
		Keyword:    query.Get("q"),
		Sort:       query.Get("sort"),
		Limit:      limit,
		Offset:     offset,
	}
	if raw := query.Get("status"); raw != "" {
		status := jobsdomain.Status(raw)
		filter.Status = &status
	}

	jobs, total, err := h.Jobs.ListJobs(r.Context(), caller, filter)
	if err != nil {
		h.writeJobError(w, "jobs.list", err)
		return
	}

	items := make([]jobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, toJobResponse(&jobs[i]))
	}

	writeJSON(w, http.StatusOK, jobListResponse{
		Jobs:     items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *Handlers) EditJob(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateJobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input := jobsdomain.UpdateJobInput{
		Title:        req.Title,
		Description:  req.Description,
		Target:       req.Target,
		Region:       req.Region,
		Payment:      req.Payment,
		PaymentCycle: req.PaymentCycle,
		Schedule:     req.Schedule,
	}
	if req.StartDate != nil {
		parsed, err := parseDateField(*req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "start_date must be YYYY-MM-DD")
			return
		}
		input.StartDate = &parsed
	}
	if req.EndDate != nil {
		parsed, err := parseDateField(*req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "end_date must be YYYY-MM-DD")
			return
		}
		input.EndDate = &parsed
	}

	job, err := h.Jobs.EditJob(r.Context(), caller, chi.URLParam(r, "jobID"), input)
	if err != nil {
		h.writeJobError(w, "jobs.edit", err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(job))
}

func (h *Handlers) DeleteJob(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Jobs.DeleteJob(r.Context(), caller, chi.URLParam(r, "jobID")); err != nil {
		h.writeJobError(w, "jobs.delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) PublishJob(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	job, err := h.Jobs.PublishJob(r.Context(), caller, chi.URLParam(r, "jobID"))
	if err != nil {
		h.writeJobError(w, "jobs.publish", err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(job))
}

func (h *Handlers) CloseJob(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	job, err := h.Jobs.CloseJob(r.Context(), caller, chi.URLParam(r, "jobID"))
	if err != nil {
		h.writeJobError(w, "jobs.close", err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(job))
}

func (h *Handlers) AttachJobCategories(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req attachCategoriesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	categories, err := h.Jobs.AttachCategories(r.Context(), caller, chi.URLParam(r, "jobID"), req.CategoryIDs)
	if err != nil {
		h.writeJobError(w, "jobs.attach_categories", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]categoryResponse{"categories": toCategoryResponses(categories)})
}

func (h *Handlers) DetachJobCategories(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Jobs.DetachAllCategories(r.Context(), caller, chi.URLParam(r, "jobID")); err != nil {
		h.writeJobError(w, "jobs.detach_categories", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Jobs.ListCategories(r.Context())
	if err != nil {
		h.log.InternalError("categories.list: failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string][]categoryResponse{"categories": toCategoryResponses(categories)})
}

// ListJobCandidates ranks every registered tutor against the job. Only the
// job owner may ask; the scorer itself is pure, so this handler just feeds it.
func (h *Handlers) ListJobCandidates(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	if !caller.IsParent() {
		writeError(w, http.StatusForbidden, "forbidden", "only requesters can list candidates")
		return
	}

	job, err := h.Jobs.GetJob(r.Context(), caller, chi.URLParam(r, "jobID"))
	if err != nil {
		h.writeJobError(w, "jobs.candidates", err)
		return
	}

	tutors, err := h.Tutors.ListAll(r.Context())
	if err != nil {
		h.log.InternalError("jobs.candidates: list tutors failed", err, "job_id", job.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	profiles := make([]matching.TutorProfile, 0, len(tutors))
	for _, tutor := range tutors {
		profiles = append(profiles, matching.TutorProfile{
			ID:      tutor.ID,
			Gender:  matching.NormalizeGender(tutor.Gender),
			Regions: tutor.RegionList(),
		})
	}

	ranked := matching.Rank(matching.JobProfile{Region: job.Region, Target: job.Target}, profiles)

	candidates := make([]candidateResponse, 0, len(ranked))
	for _, candidate := range ranked {
		candidates = append(candidates, candidateResponse{
			TutorID:     candidate.TutorID,
			RegionScore: candidate.RegionScore,
			GenderScore: candidate.GenderScore,
			Score:       candidate.Score,
		})
	}

	writeJSON(w, http.StatusOK, map[string][]candidateResponse{"candidates": candidates})
}

func (h *Handlers) writeJobError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, jobsdomain.ErrValidation):
		h.log.BusinessError(op+": rejected", err)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, jobsdomain.ErrJobNotFound):
		h.log.BusinessError(op+": job not found", err)
		writeError(w, http.StatusNotFound, "job_not_found", "job not found")
	case errors.Is(err, jobsdomain.ErrCategoryNotFound):
		h.log.BusinessError(op+": category not found", err)
		writeError(w, http.StatusNotFound, "category_not_found", "category not found")
	case errors.Is(err, jobsdomain.ErrForbidden):
		h.log.BusinessError(op+": forbidden", err)
		writeError(w, http.StatusForbidden, "forbidden", "not allowed")
	case errors.Is(err, jobsdomain.ErrJobNotEditable):
		h.log.BusinessError(op+": job not editable", err)
		writeError(w, http.StatusConflict, "job_not_editable", "job is no longer editable")
	case errors.Is(err, jobsdomain.ErrInvalidTransition):
		h.log.BusinessError(op+": invalid transition", err)
		writeError(w, http.StatusConflict, "invalid_transition", "invalid status transition")
	default:
		h.log.InternalError(op+": failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toJobResponse(job *jobsdomain.Job) jobResponse {
	return jobResponse{
		ID:             job.ID,
		RequesterID:    job.RequesterID,
		Title:          job.Title,
		Description:    job.Description,
		Target:         job.Target,
		Region:         job.Region,
		Payment:        job.Payment,
		PaymentCycle:   job.PaymentCycle,
		StartDate:      formatDate(job.StartDate),
		EndDate:        formatDate(job.EndDate),
		Schedule:       job.Schedule,
		Status:         string(job.Status),
		MatchedTutorID: job.MatchedTutorID,
		MatchedAt:      job.MatchedAt,
		CreatedAt:      job.CreatedAt,
	}
}

func toCategoryResponses(categories []jobsdomain.Category) []categoryResponse {
	result := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		result = append(result, categoryResponse{ID: category.ID, Name: category.Name})
	}
	return result
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
