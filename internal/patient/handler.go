package patient

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/apierror"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/patient/entity"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/validate"
)

const notFoundMessage = "Patient not found or not created by this user"

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type CreateRequest struct {
	Name        string `json:"name" validate:"notblank"`
	Age         *int   `json:"age" validate:"required,gte=1,lte=120"`
	Gender      string `json:"gender" validate:"oneof=Male Female Other"`
	ContactInfo string `json:"contactInfo"`
}

func (CreateRequest) FieldMessages() validate.Messages {
	return validate.Messages{
		"name":   "Patient name is required",
		"age":    "Age must be a number between 1 and 120",
		"gender": "Gender is required",
	}
}

// UpdateRequest fields are all optional; supplied ones follow the create rules.
type UpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank"`
	Age         *int    `json:"age" validate:"omitempty,gte=1,lte=120"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	ContactInfo *string `json:"contactInfo"`
}

func (UpdateRequest) FieldMessages() validate.Messages {
	return CreateRequest{}.FieldMessages()
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromRequest(r)
	if err != nil {
		apierror.Write(w, h.logger, err)
		return
	}
	patients, err := h.svc.List(r.Context(), caller)
	if err != nil {
		apierror.Write(w, h.logger, apierror.Internal(err))
		return
	}
	apierror.WriteJSON(w, http.StatusOK, patients)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromRequest(r)
	if err != nil {
		apierror.Write(w, h.logger, err)
		return
	}
	var req CreateRequest
	if err := validate.Decode(r, &req); err != nil {
		apierror.Write(w, h.logger, err)
		return
	}
	p, err := h.svc.Create(r.Context(), caller, NewPatient{
		Name:        req.Name,
		Age:         *req.Age,
		Gender:      req.Gender,
		ContactInfo: req.ContactInfo,
	})
	if err != nil {
		apierror.Write(w, h.logger, apierror.Internal(err))
		return
	}
	apierror.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromRequest(r)
	if err != nil {
		apierror.Write(w, h.logger, err)
		return
	}
	p, err := h.svc.Get(r.Context(), caller, r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	apierror.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromRequest(r)
	if err != nil {
		apierror.Write(w, h.logger, err)
		return
	}
	var req UpdateRequest
	if err := validate.Decode(r, &req); err != nil {
		apierror.Write(w, h.logger, err)
		return
	}
	p, err := h.svc.Update(r.Context(), caller, r.PathValue("id"), entity.Changes{
		Name:        req.Name,
		Age:         req.Age,
		Gender:      req.Gender,
		ContactInfo: req.ContactInfo,
	})
	if err != nil {
		h.writeErr(w, err)
		return
	}
	apierror.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromRequest(r)
	if err != nil {
		apierror.Write(w, h.logger, err)
		return
	}
	if err := h.svc.Delete(r.Context(), caller, r.PathValue("id")); err != nil {
		h.writeErr(w, err)
		return
	}
	apierror.WriteJSON(w, http.StatusOK, map[string]string{"msg": "Patient removed"})
}

func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		apierror.Write(w, h.logger, apierror.NotFound(notFoundMessage))
		return
	}
	apierror.Write(w, h.logger, apierror.Internal(err))
}
