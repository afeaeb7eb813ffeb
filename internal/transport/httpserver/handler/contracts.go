package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	contractsdomain "tutormatch-go/internal/domain/contracts"
	"tutormatch-go/internal/transport/httpserver/middleware"
)

type contractResponse struct {
	ID            string    `json:"id"`
	ApplyID       string    `json:"apply_id"`
	JobID         string    `json:"job_id"`
	TutorID       string    `json:"tutor_id"`
	RequesterID   string    `json:"requester_id"`
	ContractTitle string    `json:"contract_title"`
	StartDate     string    `json:"start_date,omitempty"`
	EndDate       string    `json:"end_date,omitempty"`
	Payment       int64     `json:"payment"`
	PaymentCycle  string    `json:"payment_cycle"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *Handlers) ListContracts(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	contracts, err := h.Contracts.ListForCaller(r.Context(), caller)
	if err != nil {
		h.writeContractError(w, "contracts.list", err)
		return
	}

	items := make([]contractResponse, 0, len(contracts))
	for i := range contracts {
		items = append(items, toContractResponse(&contracts[i]))
	}

	writeJSON(w, http.StatusOK, map[string][]contractResponse{"contracts": items})
}

func (h *Handlers) GetContract(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	contract, err := h.Contracts.Get(r.Context(), caller, chi.URLParam(r, "contractID"))
	if err != nil {
		h.writeContractError(w, "contracts.get", err)
		return
	}

	writeJSON(w, http.StatusOK, toContractResponse(contract))
}

func (h *Handlers) writeContractError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, contractsdomain.ErrContractNotFound):
		h.log.BusinessError(op+": not found", err)
		writeError(w, http.StatusNotFound, "contract_not_found", "contract not found")
	case errors.Is(err, contractsdomain.ErrForbidden):
		h.log.BusinessError(op+": forbidden", err)
		writeError(w, http.StatusForbidden, "forbidden", "not allowed")
	default:
		h.log.InternalError(op+": failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toContractResponse(contract *contractsdomain.Contract) contractResponse {
	return contractResponse{
		ID:            contract.ID,
		ApplyID:       contract.ApplyID,
		JobID:         contract.JobID,
		TutorID:       contract.TutorID,
		RequesterID:   contract.RequesterID,
		ContractTitle: contract.ContractTitle,
		StartDate:     formatDate(contract.StartDate),
		EndDate:       formatDate(contract.EndDate),
		Payment:       contract.Payment,
		PaymentCycle:  contract.PaymentCycle,
		Status:        string(contract.Status),
		CreatedAt:     contract.CreatedAt,
	}
}
