package handlers

import (
	"strings"

	"arogya-records/internal/adapters/http/middleware"
	"arogya-records/internal/core/services"
	"arogya-records/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PatientHandler handles patient profile endpoints
type PatientHandler struct {
	patientService *services.PatientService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(patientService *services.PatientService) *PatientHandler {
	return &PatientHandler{
		patientService: patientService,
	}
}

// GetMe returns the caller's patient profile
// @Summary Get own patient profile
// @Tags Patients
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.Patient}
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/me [get]
func (h *PatientHandler) GetMe(c *fiber.Ctx) error {
	session := middleware.GetSession(c)
	if session == nil {
		return response.Unauthorized(c, middleware.SessionMessage)
	}

	patient, err := h.patientService.GetProfile(c.UserContext(), session.User.ID)
	if err != nil {
		return respondError(c, "load patient profile", err)
	}

	return response.Success(c, "Patient profile retrieved successfully", patient)
}

// UpdateMe partially updates the caller's patient profile
// @Summary Update own patient profile
// @Description Only the supplied fields change
// @Tags Patients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdatePatientInput true "Fields to change"
// @Success 200 {object} response.Response{data=models.Patient}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/me [patch]
func (h *PatientHandler) UpdateMe(c *fiber.Ctx) error {
	session := middleware.GetSession(c)
	if session == nil {
		return response.Unauthorized(c, middleware.SessionMessage)
	}

	var input services.UpdatePatientInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	patient, err := h.patientService.UpdateProfile(c.UserContext(), session.User.ID, &input)
	if err != nil {
		return respondError(c, "update patient profile", err)
	}

	return response.Success(c, "Patient profile updated successfully", patient)
}

// GetByID returns any patient's profile (doctor, staff, admin)
// @Summary Get patient profile by user ID
// @Tags Patients
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response{data=models.Patient}
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id} [get]
func (h *PatientHandler) GetByID(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return response.BadRequest(c, "Patient ID is required")
	}

	patient, err := h.patientService.GetProfile(c.UserContext(), id)
	if err != nil {
		return respondError(c, "load patient profile", err)
	}

	return response.Success(c, "Patient profile retrieved successfully", patient)
}
