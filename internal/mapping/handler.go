package mapping

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/apierror"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/auth"
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
	PatientID string `json:"patientId" validate:"notblank"`
	DoctorID  string `json:"doctorId" validate:"notblank"`
}

func (CreateRequest) FieldMessages() validate.Messages {
	return validate.Messages{
		"patientId": "Patient ID is required",
		"doctorId":  "Doctor ID is required",
	}
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
	m, err := h.svc.Create(r.Context(), caller, req.PatientID, req.DoctorID)
	switch {
	case err == nil:
		apierror.WriteJSON(w, http.StatusOK, m)
	case errors.Is(err, ErrReferenceNotFound):
		apierror.Write(w, h.logger, apierror.NotFound("Patient or Doctor not found"))
	case errors.Is(err, ErrNotOwner):
		apierror.Write(w, h.logger, apierror.Forbidden("Forbidden: Cannot map a patient you did not create."))
	case errors.Is(err, ErrDuplicate):
		apierror.Write(w, h.logger, apierror.Conflict("Error: This patient is already assigned to this doctor."))
	default:
		apierror.Write(w, h.logger, apierror.Internal(err))
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromRequest(r)
	if err != nil {
		apierror.Write(w, h.logger, err)
		return
	}
	out, err := h.svc.List(r.Context(), caller)
	if err != nil {
		apierror.Write(w, h.logger, apierror.Internal(err))
		return
	}
	apierror.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromRequest(r)
	if err != nil {
		apierror.Write(w, h.logger, err)
		return
	}
	out, err := h.svc.ListByPatient(r.Context(), caller, r.PathValue("id"))
	if errors.Is(err, ErrPatientNotFound) {
		apierror.Write(w, h.logger, apierror.NotFound("Patient not found or not created by this user"))
		return
	}
	if err != nil {
		apierror.Write(w, h.logger, apierror.Internal(err))
		return
	}
	apierror.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.FromRequest(r); err != nil {
		apierror.Write(w, h.logger, err)
		return
	}
	err := h.svc.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, ErrNotFound) {
		apierror.Write(w, h.logger, apierror.NotFound("Mapping not found"))
		return
	}
	if err != nil {
		apierror.Write(w, h.logger, apierror.Internal(err))
		return
	}
	apierror.WriteJSON(w, http.StatusOK, map[string]string{"msg": "Patient-Doctor mapping removed"})
}
