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

type ShelterHandler struct {
	shelterUsecase usecase.ShelterUsecase
	validator      *validator.CustomValidator
}

func NewShelterHandler(shelterUsecase usecase.ShelterUsecase, validator *validator.CustomValidator) *ShelterHandler {
	return &ShelterHandler{
		shelterUsecase: shelterUsecase,
		validator:      validator,
	}
}

func (h *ShelterHandler) GetAllShelters(w http.ResponseWriter, r *http.Request) {
	shelters, err := h.shelterUsecase.GetAllShelters(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get shelters")
		return
	}

	response.Success(w, http.StatusOK, "Shelters retrieved successfully", shelters)
}

func (h *ShelterHandler) GetAllSheltersWithRatings(w http.ResponseWriter, r *http.Request) {
	shelters, err := h.shelterUsecase.GetAllSheltersWithRatings(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get shelters")
		return
	}

	response.Success(w, http.StatusOK, "Shelters retrieved successfully", shelters)
}

func (h *ShelterHandler) BulkSaveShelters(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkSaveSheltersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	shelters, err := h.shelterUsecase.BulkSaveShelters(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrStaleWrite:
			response.Conflict(w, "Shelter collection was modified by another writer, re-fetch and retry")
		case usecase.ErrDistrictNotFound:
			response.BadRequest(w, "District not found")
		case usecase.ErrShelterNotFound:
			response.BadRequest(w, "Invalid shelter ID")
		case usecase.ErrAllocationExceeded:
			response.Conflict(w, "Shelter consumption exceeds district allocation")
		default:
			response.InternalServerError(w, "Failed to save shelters")
		}
		return
	}

	response.Success(w, http.StatusOK, "Shelters saved successfully", shelters)
}

func (h *ShelterHandler) CreateShelter(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateShelterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	shelter, err := h.shelterUsecase.CreateShelter(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrDistrictNotFound:
			response.BadRequest(w, "District not found")
		case usecase.ErrAllocationExceeded:
			response.Conflict(w, "Shelter consumption exceeds district allocation")
		case usecase.ErrStaleWrite:
			response.Conflict(w, "Shelter collection was modified by another writer, retry")
		default:
			response.InternalServerError(w, "Failed to create shelter")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Shelter created successfully", shelter)
}

func (h *ShelterHandler) UpdateShelter(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateShelterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	shelter, err := h.shelterUsecase.UpdateShelter(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrShelterNotFound:
			response.NotFound(w, "Shelter not found")
		case usecase.ErrDistrictNotFound:
			response.BadRequest(w, "District not found")
		case usecase.ErrAllocationExceeded:
			response.Conflict(w, "Shelter consumption exceeds district allocation")
		case usecase.ErrStaleWrite:
			response.Conflict(w, "Shelter collection was modified by another writer, retry")
		default:
			response.InternalServerError(w, "Failed to update shelter")
		}
		return
	}

	response.Success(w, http.StatusOK, "Shelter updated successfully", shelter)
}

func (h *ShelterHandler) DeleteShelter(w http.ResponseWriter, r *http.Request) {
	var req dto.ShelterIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	shelterID, err := uuid.Parse(req.ID)
	if err != nil {
		response.BadRequest(w, "Invalid shelter ID")
		return
	}

	if err := h.shelterUsecase.DeleteShelter(r.Context(), shelterID); err != nil {
		switch err {
		case usecase.ErrShelterNotFound:
			response.NotFound(w, "Shelter not found")
		case usecase.ErrStaleWrite:
			response.Conflict(w, "Shelter collection was modified by another writer, retry")
		default:
			response.InternalServerError(w, "Failed to delete shelter")
		}
		return
	}

	response.Success(w, http.StatusOK, "Shelter deleted successfully", nil)
}
