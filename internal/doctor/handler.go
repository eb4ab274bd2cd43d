package doctor

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/apierror"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/doctor/entity"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/validate"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type CreateRequest struct {
	Name           string `json:"name" validate:"notblank"`
	Specialization string `json:"specialization" validate:"notblank"`
	ContactInfo    string `json:"contactInfo"`
}

func (CreateRequest) FieldMessages() validate.Messages {
	return validate.Messages{
		"name":           "Doctor name is required",
		"specialization": "Specialization is required",
	}
}

type UpdateRequest struct {
	Name           *string `json:"name" validate:"omitempty,notblank"`
	Specialization *string `json:"specialization" validate:"omitempty,notblank"`
	ContactInfo    *string `json:"contactInfo"`
}

func (UpdateRequest) FieldMessages() validate.Messages {
	return CreateRequest{}.FieldMessages()
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.svc.List(r.Context())
	if err != nil {
		apierror.Write(w, h.logger, apierror.Internal(err))
		return
	}
	apierror.WriteJSON(w, http.StatusOK, doctors)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	apierror.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := validate.Decode(r, &req); err != nil {
		apierror.Write(w, h.logger, err)
		return
	}
	d, err := h.svc.Create(r.Context(), req.Name, req.Specialization, req.ContactInfo)
	if err != nil {
		apierror.Write(w, h.logger, apierror.Internal(err))
		return
	}
	apierror.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := validate.Decode(r, &req); err != nil {
		apierror.Write(w, h.logger, err)
		return
	}
	d, err := h.svc.Update(r.Context(), r.PathValue("id"), entity.Changes{
		Name:           req.Name,
		Specialization: req.Specialization,
		ContactInfo:    req.ContactInfo,
	})
	if err != nil {
		h.writeErr(w, err)
		return
	}
	apierror.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeErr(w, err)
		return
	}
	apierror.WriteJSON(w, http.StatusOK, map[string]string{"msg": "Doctor removed"})
}

func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		apierror.Write(w, h.logger, apierror.NotFound("Doctor not found"))
		return
	}
	apierror.Write(w, h.logger, apierror.Internal(err))
}
