package handler

import (
	"errors"
	"net/http"
	"time"

	tutorsdomain "tutormatch-go/internal/domain/tutors"
	"tutormatch-go/internal/transport/httpserver/middleware"
)

type registerTutorRequest struct {
	Name         string   `json:"name"`
	BirthYear    int      `json:"birth_year"`
	Gender       string   `json:"gender"`
	School       string   `json:"school"`
	Major        string   `json:"major"`
	CareerYears  int      `json:"career_years"`
	Introduction string   `json:"introduction"`
	PhotoPath    string   `json:"photo_path"`
	Regions      []string `json:"regions"`
}

type tutorResponse struct {
	ID           string    `json:"id"`
	MemberID     string    `json:"member_id"`
	Name         string    `json:"name"`
	BirthYear    int       `json:"birth_year"`
	Gender       string    `json:"gender"`
	School       string    `json:"school,omitempty"`
	Major        string    `json:"major,omitempty"`
	CareerYears  int       `json:"career_years"`
	Introduction string    `json:"introduction,omitempty"`
	PhotoPath    string    `json:"photo_path,omitempty"`
	Regions      []string  `json:"regions"`
	CreatedAt    time.Time `json:"created_at"`
}

func (h *Handlers) RegisterTutor(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req registerTutorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	tutor, err := h.Tutors.Register(r.Context(), caller, tutorsdomain.RegisterInput{
		Name:         req.Name,
		BirthYear:    req.BirthYear,
		Gender:       req.Gender,
		School:       req.School,
		Major:        req.Major,
		CareerYears:  req.CareerYears,
		Introduction: req.Introduction,
		PhotoPath:    req.PhotoPath,
		Regions:      req.Regions,
	})
	if err != nil {
		h.writeTutorError(w, "tutors.register", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTutorResponse(tutor))
}

func (h *Handlers) GetMyTutorProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	tutor, err := h.Tutors.GetByMember(r.Context(), caller.ID)
	if err != nil {
		h.writeTutorError(w, "tutors.me", err)
		return
	}

	writeJSON(w, http.StatusOK, toTutorResponse(tutor))
}

func (h *Handlers) writeTutorError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, tutorsdomain.ErrValidation):
		h.log.BusinessError(op+": rejected", err)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, tutorsdomain.ErrForbidden):
		h.log.BusinessError(op+": forbidden", err)
		writeError(w, http.StatusForbidden, "forbidden", "not allowed")
	case errors.Is(err, tutorsdomain.ErrTutorExists):
		h.log.BusinessError(op+": profile exists", err)
		writeError(w, http.StatusConflict, "tutor_exists", "tutor profile already registered")
	case errors.Is(err, tutorsdomain.ErrTutorNotFound):
		h.log.BusinessError(op+": not found", err)
		writeError(w, http.StatusNotFound, "tutor_not_found", "tutor profile not found")
	default:
		h.log.InternalError(op+": failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toTutorResponse(tutor *tutorsdomain.Tutor) tutorResponse {
	return tutorResponse{
		ID:           tutor.ID,
		MemberID:     tutor.MemberID,
		Name:         tutor.Name,
		BirthYear:    tutor.BirthYear,
		Gender:       tutor.Gender,
		School:       tutor.School,
		Major:        tutor.Major,
		CareerYears:  tutor.CareerYears,
		Introduction: tutor.Introduction,
		PhotoPath:    tutor.PhotoPath,
		Regions:      tutor.RegionList(),
		CreatedAt:    tutor.CreatedAt,
	}
}
