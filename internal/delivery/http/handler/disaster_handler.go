package handler

import (
	"encoding/json"
	"net/http"

	"go-disaster-management/internal/delivery/dto"
	"go-disaster-management/internal/usecase"
	"go-disaster-management/pkg/response"
	"go-disaster-management/pkg/validator"
)

type DisasterHandler struct {
	disasterUsecase usecase.DisasterUsecase
	validator       *validator.CustomValidator
}

func NewDisasterHandler(disasterUsecase usecase.DisasterUsecase, validator *validator.CustomValidator) *DisasterHandler {
	return &DisasterHandler{
		disasterUsecase: disasterUsecase,
		validator:       validator,
	}
}

func (h *DisasterHandler) GetAllDisasters(w http.ResponseWriter, r *http.Request) {
	disasters, err := h.disasterUsecase.GetAllDisasters(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get disasters")
		return
	}

	response.Success(w, http.StatusOK, "Disasters retrieved successfully", disasters)
}

func (h *DisasterHandler) SaveDisasters(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveDisastersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	disasters, err := h.disasterUsecase.SaveDisasters(r.Context(), &req)
	if err != nil {
		if err == usecase.ErrInvalidDisasterDate {
			response.BadRequest(w, "Invalid date format, use YYYY-MM-DD")
			return
		}
		response.InternalServerError(w, "Failed to save disasters")
		return
	}

	response.Success(w, http.StatusOK, "Disasters saved successfully", disasters)
}
