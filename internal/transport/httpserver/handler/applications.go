package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	applicationsdomain "tutormatch-go/internal/domain/applications"
	jobsdomain "tutormatch-go/internal/domain/jobs"
	"tutormatch-go/internal/transport/httpserver/middleware"
)

type createApplicationRequest struct {
	Message string `json:"message"`
}

type updateApplicationMessageRequest struct {
	Message string `json:"message"`
}

type decideApplicationRequest struct {
	Decision string `json:"decision"`
}

type applicationResponse struct {
	ID        string    `json:"id"`
	TutorID   string    `json:"tutor_id"`
	JobID     string    `json:"job_id"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type confirmResponse struct {
	Application applicationResponse `json:"application"`
	Job         jobResponse         `json:"job"`
	Contract    contractResponse    `json:"contract"`
}

func (h *Handlers) CreateApplication(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	application, err := h.Applications.Create(r.Context(), caller, chi.URLParam(r, "jobID"), req.Message)
	if err != nil {
		h.writeApplicationError(w, "applications.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toApplicationResponse(application))
}

func (h *Handlers) ListJobApplications(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	applications, err := h.Applications.ListForJob(r.Context(), caller, chi.URLParam(r, "jobID"))
	if err != nil {
		h.writeApplicationError(w, "applications.list_for_job", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]applicationResponse{"applications": toApplicationResponses(applications)})
}

func (h *Handlers) ListMyApplications(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	applications, err := h.Applications.ListMine(r.Context(), caller)
	if err != nil {
		h.writeApplicationError(w, "applications.list_mine", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]applicationResponse{"applications": toApplicationResponses(applications)})
}

func (h *Handlers) UpdateApplicationMessage(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateApplicationMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	application, err := h.Applications.UpdateMessage(r.Context(), caller, chi.URLParam(r, "applicationID"), req.Message)
	if err != nil {
		h.writeApplicationError(w, "applications.update_message", err)
		return
	}

	writeJSON(w, http.StatusOK, toApplicationResponse(application))
}

func (h *Handlers) DecideApplication(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req decideApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	application, err := h.Applications.Decide(
		r.Context(), caller,
		chi.URLParam(r, "applicationID"),
		applicationsdomain.Decision(req.Decision),
	)
	if err != nil {
		h.writeApplicationError(w, "applications.decide", err)
		return
	}

	writeJSON(w, http.StatusOK, toApplicationResponse(application))
}

// ConfirmApplication finalizes an accepted application: the job becomes
// matched, a contract is created and every other pending application on the
// job is rejected, all in one transaction.
func (h *Handlers) ConfirmApplication(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Applications.Confirm(r.Context(), caller, chi.URLParam(r, "applicationID"))
	if err != nil {
		h.writeApplicationError(w, "applications.confirm", err)
		return
	}

	writeJSON(w, http.StatusOK, confirmResponse{
		Application: toApplicationResponse(result.Application),
		Job:         toJobResponse(result.Job),
		Contract:    toContractResponse(result.Contract),
	})
}

func (h *Handlers) writeApplicationError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, applicationsdomain.ErrValidation):
		h.log.BusinessError(op+": rejected", err)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, applicationsdomain.ErrTutorProfileRequired):
		h.log.BusinessError(op+": tutor profile required", err)
		writeError(w, http.StatusForbidden, "tutor_profile_required", "register a tutor profile first")
	case errors.Is(err, applicationsdomain.ErrForbidden):
		h.log.BusinessError(op+": forbidden", err)
		writeError(w, http.StatusForbidden, "forbidden", "not allowed")
	case errors.Is(err, applicationsdomain.ErrApplicationNotFound):
		h.log.BusinessError(op+": application not found", err)
		writeError(w, http.StatusNotFound, "application_not_found", "application not found")
	case errors.Is(err, jobsdomain.ErrJobNotFound), errors.Is(err, applicationsdomain.ErrJobNotAvailable):
		h.log.BusinessError(op+": job not available", err)
		writeError(w, http.StatusNotFound, "job_not_found", "job not found")
	case errors.Is(err, applicationsdomain.ErrAlreadyApplied):
		h.log.BusinessError(op+": duplicate application", err)
		writeError(w, http.StatusConflict, "already_applied", "already applied to this job")
	case errors.Is(err, applicationsdomain.ErrJobNotOpen):
		h.log.BusinessError(op+": job not open", err)
		writeError(w, http.StatusConflict, "job_not_open", "job is not open")
	case errors.Is(err, applicationsdomain.ErrApplicationNotReady):
		h.log.BusinessError(op+": application not ready", err)
		writeError(w, http.StatusConflict, "application_not_ready", "application is no longer ready")
	case errors.Is(err, applicationsdomain.ErrApplicationNotAccepted):
		h.log.BusinessError(op+": application not accepted", err)
		writeError(w, http.StatusConflict, "application_not_accepted", "application is not accepted")
	default:
		h.log.InternalError(op+": failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toApplicationResponse(application *applicationsdomain.Application) applicationResponse {
	return applicationResponse{
		ID:        application.ID,
		TutorID:   application.TutorID,
		JobID:     application.TutorJobID,
		Message:   application.Message,
		Status:    string(application.Status),
		CreatedAt: application.CreatedAt,
		UpdatedAt: application.UpdatedAt,
	}
}

func toApplicationResponses(applications []applicationsdomain.Application) []applicationResponse {
	result := make([]applicationResponse, 0, len(applications))
	for i := range applications {
		result = append(result, toApplicationResponse(&applications[i]))
	}
	return result
}
