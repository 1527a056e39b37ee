package handler

import (
	"net/http"

	"github.com/segyhp/microloan-engine/internal/domain"
	"github.com/segyhp/microloan-engine/internal/service"
	"github.com/segyhp/microloan-engine/pkg/response"

	"github.com/go-playground/validator/v10"
)

type PaymentHandler struct {
	service   *service.PaymentService
	validator *validator.Validate
}

func NewPaymentHandler(service *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service:   service,
		validator: NewValidator(),
	}
}

func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var request domain.InitiatePaymentRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	resp, err := h.service.InitiatePayment(r.Context(), PrincipalFrom(r.Context()), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, resp)
}

func (h *PaymentHandler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	payment, err := h.service.ApprovePayment(r.Context(), PrincipalFrom(r.Context()), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, payment)
}

func (h *PaymentHandler) RejectPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	payment, err := h.service.RejectPayment(r.Context(), PrincipalFrom(r.Context()), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, payment)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	payment, err := h.service.GetPayment(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, payment)
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListPayments(r.Context(), r.URL.Query().Get("status"), queryInt(r, "page"), queryInt(r, "page_size"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, resp)
}
