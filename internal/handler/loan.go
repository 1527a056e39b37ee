package handler

import (
	"context"
	"net/http"

	"github.com/segyhp/microloan-engine/internal/domain"
	"github.com/segyhp/microloan-engine/internal/service"
	customError "github.com/segyhp/microloan-engine/pkg/errors"
	"github.com/segyhp/microloan-engine/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: NewValidator(),
	}
}

// ApplyLoan creates a Pending loan with its repayment schedule
func (h *LoanHandler) ApplyLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.ApplyLoanRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	resp, err := h.service.ApplyLoan(r.Context(), PrincipalFrom(r.Context()), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, resp)
}

func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetLoan(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.service.ListLoans(r.Context(), q.Get("status"), queryInt(r, "page"), queryInt(r, "page_size"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, resp)
}

// Transition handles POST /loans/{id}/{action}
func (h *LoanHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var apply func(ctx context.Context, p domain.Principal, loanID int64) (*domain.Loan, error)
	switch mux.Vars(r)["action"] {
	case "approve":
		apply = h.service.ApproveLoan
	case "reject":
		apply = h.service.RejectLoan
	case "complete":
		apply = h.service.CompleteLoan
	case "default":
		apply = h.service.DefaultLoan
	default:
		response.NotFound(w, "Unknown loan action")
		return
	}

	loan, err := apply(r.Context(), PrincipalFrom(r.Context()), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loan)
}

// DueRepayments handles GET /repayments/due?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *LoanHandler) DueRepayments(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	end, err := queryDate(r, "end")
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if start == nil || end == nil {
		response.FromError(w, customError.WrapInvalidArgument("start and end are required"))
		return
	}

	due, err := h.service.GetDueRepayments(r.Context(), *start, *end)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, due)
}
