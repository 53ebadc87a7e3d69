package handler

import (
	"encoding/json"
	"net/http"

	"go-disaster-management/internal/delivery/dto"
	"go-disaster-management/internal/usecase"
	"go-disaster-management/pkg/response"
	"go-disaster-management/pkg/validator"

	"github.com/google/uuid"
)

type DistrictHandler struct {
	districtUsecase usecase.DistrictUsecase
	validator       *validator.CustomValidator
}

func NewDistrictHandler(districtUsecase usecase.DistrictUsecase, validator *validator.CustomValidator) *DistrictHandler {
	return &DistrictHandler{
		districtUsecase: districtUsecase,
		validator:       validator,
	}
}

func (h *DistrictHandler) GetAllDistricts(w http.ResponseWriter, r *http.Request) {
	districts, err := h.districtUsecase.GetAllDistricts(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get districts")
		return
	}

	response.Success(w, http.StatusOK, "Districts retrieved successfully", districts)
}

func (h *DistrictHandler) GetDistrictByID(w http.ResponseWriter, r *http.Request) {
	var req dto.DistrictIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	districtID, err := uuid.Parse(req.ID)
	if err != nil {
		response.BadRequest(w, "Invalid district ID")
		return
	}

	district, err := h.districtUsecase.GetDistrict(r.Context(), districtID)
	if err != nil {
		if err == usecase.ErrDistrictNotFound {
			response.NotFound(w, "District not found")
			return
		}
		response.InternalServerError(w, "Failed to get district")
		return
	}

	response.Success(w, http.StatusOK, "District retrieved successfully", district)
}

func (h *DistrictHandler) CreateDistrict(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDistrictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	district, err := h.districtUsecase.CreateDistrict(r.Context(), &req)
	if err != nil {
		if err == usecase.ErrDistrictNameTaken {
			response.BadRequest(w, "District name already exists")
			return
		}
		response.InternalServerError(w, "Failed to create district")
		return
	}

	response.Success(w, http.StatusCreated, "District created successfully", district)
}

func (h *DistrictHandler) UpdateDistrict(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDistrictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	district, err := h.districtUsecase.UpdateDistrict(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrDistrictNotFound:
			response.NotFound(w, "District not found")
		case usecase.ErrDistrictNameTaken:
			response.BadRequest(w, "District name already exists")
		case usecase.ErrNoFieldsToUpdate:
			response.BadRequest(w, "At least one field is required")
		case usecase.ErrAllocationExceeded:
			response.Conflict(w, "Allocated totals cannot drop below current shelter consumption")
		default:
			response.InternalServerError(w, "Failed to update district")
		}
		return
	}

	response.Success(w, http.StatusOK, "District updated successfully", district)
}

func (h *DistrictHandler) DeleteDistrict(w http.ResponseWriter, r *http.Request) {
	var req dto.DistrictIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	districtID, err := uuid.Parse(req.ID)
	if err != nil {
		response.BadRequest(w, "Invalid district ID")
		return
	}

	if err := h.districtUsecase.DeleteDistrict(r.Context(), districtID); err != nil {
		switch err {
		case usecase.ErrDistrictNotFound:
			response.NotFound(w, "District not found")
		case usecase.ErrDistrictHasShelters:
			response.Conflict(w, "District still has shelters")
		default:
			response.InternalServerError(w, "Failed to delete district")
		}
		return
	}

	response.Success(w, http.StatusOK, "District deleted successfully", nil)
}
