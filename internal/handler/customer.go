package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/segyhp/microloan-engine/internal/domain"
	"github.com/segyhp/microloan-engine/internal/service"
	"github.com/segyhp/microloan-engine/pkg/response"

	"github.com/go-playground/validator/v10"
)

const maxUploadMemory = 10 << 20

type CustomerHandler struct {
	service   *service.CustomerService
	validator *validator.Validate
}

func NewCustomerHandler(service *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		service:   service,
		validator: NewValidator(),
	}
}

// CreateCustomer accepts either a JSON body or a multipart form whose
// "payload" part holds the JSON and whose "identification_document" and
// "passport_photo" parts hold optional files.
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateCustomerRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			response.BadRequest(w, "Invalid multipart form")
			return
		}
		defer r.MultipartForm.RemoveAll()

		if err := json.Unmarshal([]byte(r.FormValue("payload")), &request); err != nil {
			response.BadRequest(w, "Invalid payload part")
			return
		}
		if err := h.validator.Struct(&request); err != nil {
			response.BadRequest(w, validationMessage(err))
			return
		}

		var closers []multipart.File
		defer func() {
			for _, f := range closers {
				f.Close()
			}
		}()

		for field, dst := range map[string]**domain.Document{
			"identification_document": &request.IdentificationDocument,
			"passport_photo":          &request.PassportPhoto,
		} {
			file, header, err := r.FormFile(field)
			if errors.Is(err, http.ErrMissingFile) {
				continue
			}
			if err != nil {
				response.BadRequest(w, "Invalid file "+field)
				return
			}
			closers = append(closers, file)
			*dst = &domain.Document{Filename: header.Filename, Content: file}
		}
	} else if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), PrincipalFrom(r.Context()), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, customer)
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var request domain.UpdateCustomerRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	customer, err := h.service.UpdateCustomer(r.Context(), PrincipalFrom(r.Context()), id, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, customer)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	customer, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, customer)
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListCustomers(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")), queryInt(r, "page"), queryInt(r, "page_size"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), PrincipalFrom(r.Context()), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}
