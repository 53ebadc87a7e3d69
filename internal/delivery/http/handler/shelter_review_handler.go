package handler

import (
	"encoding/json"
	"net/http"

	"go-disaster-management/internal/delivery/dto"
	"go-disaster-management/internal/usecase"
	"go-disaster-management/pkg/response"
	"go-disaster-management/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ShelterReviewHandler struct {
	reviewUsecase usecase.ShelterReviewUsecase
	validator     *validator.CustomValidator
}

func NewShelterReviewHandler(reviewUsecase usecase.ShelterReviewUsecase, validator *validator.CustomValidator) *ShelterReviewHandler {
	return &ShelterReviewHandler{
		reviewUsecase: reviewUsecase,
		validator:     validator,
	}
}

func (h *ShelterReviewHandler) GetAllReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewUsecase.GetAllReviews(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get reviews")
		return
	}

	response.Success(w, http.StatusOK, "Reviews retrieved successfully", reviews)
}

func (h *ShelterReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	review, err := h.reviewUsecase.CreateReview(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrReviewMissingFields:
			response.BadRequest(w, "shelter_id, user_id and rating are required")
		case usecase.ErrReviewAlreadyExists:
			response.BadRequest(w, "You have already reviewed this shelter")
		default:
			response.InternalServerError(w, "Failed to create review")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Review created successfully", review)
}

func (h *ShelterReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	review, err := h.reviewUsecase.UpdateReview(r.Context(), &req)
	if err != nil {
		if err == usecase.ErrReviewNotFound {
			response.NotFound(w, "Review not found")
			return
		}
		response.InternalServerError(w, "Failed to update review")
		return
	}

	response.Success(w, http.StatusOK, "Review updated successfully", review)
}

func (h *ShelterReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	var req dto.ReviewIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	reviewID, err := uuid.Parse(req.ID)
	if err != nil {
		response.BadRequest(w, "Invalid review ID")
		return
	}

	if err := h.reviewUsecase.DeleteReview(r.Context(), reviewID); err != nil {
		if err == usecase.ErrReviewNotFound {
			response.NotFound(w, "Review not found")
			return
		}
		response.InternalServerError(w, "Failed to delete review")
		return
	}

	response.Success(w, http.StatusOK, "Review deleted successfully", nil)
}

func (h *ShelterReviewHandler) GetReviewsByShelter(w http.ResponseWriter, r *http.Request) {
	shelterID := mux.Vars(r)["shelterId"]
	if shelterID == "" {
		response.BadRequest(w, "Shelter ID is required")
		return
	}

	reviews, err := h.reviewUsecase.GetReviewsByShelter(r.Context(), shelterID)
	if err != nil {
		response.InternalServerError(w, "Failed to get reviews")
		return
	}

	response.Success(w, http.StatusOK, "Reviews retrieved successfully", reviews)
}

func (h *ShelterReviewHandler) GetAverageRating(w http.ResponseWriter, r *http.Request) {
	shelterID := mux.Vars(r)["shelterId"]
	if shelterID == "" {
		response.BadRequest(w, "Shelter ID is required")
		return
	}

	summary, err := h.reviewUsecase.GetAverage(r.Context(), shelterID)
	if err != nil {
		response.InternalServerError(w, "Failed to aggregate reviews")
		return
	}

	response.Success(w, http.StatusOK, "Average rating retrieved successfully", summary)
}

func (h *ShelterReviewHandler) GetReviewByUserAndShelter(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]
	shelterID := vars["shelterId"]
	if userID == "" || shelterID == "" {
		response.BadRequest(w, "User ID and shelter ID are required")
		return
	}

	review, err := h.reviewUsecase.GetReviewByUserAndShelter(r.Context(), userID, shelterID)
	if err != nil {
		if err == usecase.ErrReviewNotFound {
			response.NotFound(w, "Review not found")
			return
		}
		response.InternalServerError(w, "Failed to get review")
		return
	}

	response.Success(w, http.StatusOK, "Review retrieved successfully", review)
}
