package handler

import (
	"errors"
	"net/http"
	"time"

	identitydomain "tutormatch-go/internal/domain/identity"
	"tutormatch-go/internal/transport/httpserver/middleware"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token  string         `json:"token"`
	Member memberResponse `json:"member"`
}

type memberResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	member, err := h.Identity.Signup(r.Context(), identitydomain.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     identitydomain.Role(req.Role),
	})
	if err != nil {
		if errors.Is(err, identitydomain.ErrEmailTaken) {
			h.log.BusinessError("auth.signup: email taken", err, "email", req.Email)
			writeError(w, http.StatusConflict, "email_taken", "email already registered")
			return
		}
		if errors.Is(err, identitydomain.ErrValidation) {
			h.log.BusinessError("auth.signup: rejected", err)
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		h.log.InternalError("auth.signup: failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	token, err := h.tokens.IssueToken(member)
	if err != nil {
		h.log.InternalError("auth.signup: issue token failed", err, "member_id", member.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, Member: toMemberResponse(member)})
}

func (h *Handlers) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	member, err := h.Identity.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identitydomain.ErrInvalidCredentials) {
			h.log.BusinessError("auth.signin: invalid credentials", err, "email", req.Email)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
			return
		}
		h.log.InternalError("auth.signin: failed", err, "email", req.Email)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	token, err := h.tokens.IssueToken(member)
	if err != nil {
		h.log.InternalError("auth.signin: issue token failed", err, "member_id", member.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, Member: toMemberResponse(member)})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	member, err := h.Identity.GetMember(r.Context(), caller.ID)
	if err != nil {
		if errors.Is(err, identitydomain.ErrMemberNotFound) {
			// Mock callers in skip-auth mode have no member row.
			writeJSON(w, http.StatusOK, memberResponse{ID: caller.ID, Role: string(caller.Role)})
			return
		}
		h.log.InternalError("auth.me: get member failed", err, "member_id", caller.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(member))
}

func toMemberResponse(member *identitydomain.Member) memberResponse {
	return memberResponse{
		ID:        member.ID,
		Email:     member.Email,
		Name:      member.Name,
		Role:      string(member.Role),
		CreatedAt: member.CreatedAt,
	}
}
