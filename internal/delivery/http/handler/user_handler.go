package handler

import (
	"encoding/json"
	"net/http"

	"go-disaster-management/internal/delivery/dto"
	"go-disaster-management/internal/delivery/http/middleware"
	"go-disaster-management/internal/usecase"
	"go-disaster-management/pkg/response"
	"go-disaster-management/pkg/validator"

	"github.com/google/uuid"
)

type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
}

func NewUserHandler(userUsecase usecase.UserUsecase, validator *validator.CustomValidator) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
	}
}

func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUsecase.GetAllUsers(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get users")
		return
	}

	response.Success(w, http.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := h.friendPair(w, r)
	if !ok {
		return
	}

	if err := h.userUsecase.AddFriend(r.Context(), userID, friendID); err != nil {
		switch err {
		case usecase.ErrSelfFriendship:
			response.BadRequest(w, "Cannot befriend yourself")
		case usecase.ErrFriendNotFound:
			response.NotFound(w, "Friend not found")
		case usecase.ErrAlreadyFriends:
			response.BadRequest(w, "Already friends")
		default:
			response.InternalServerError(w, "Failed to add friend")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Friend added successfully", nil)
}

func (h *UserHandler) DeleteFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := h.friendPair(w, r)
	if !ok {
		return
	}

	if err := h.userUsecase.DeleteFriend(r.Context(), userID, friendID); err != nil {
		if err == usecase.ErrFriendshipNotFound {
			response.NotFound(w, "Friendship not found")
			return
		}
		response.InternalServerError(w, "Failed to delete friend")
		return
	}

	response.Success(w, http.StatusOK, "Friend deleted successfully", nil)
}

func (h *UserHandler) CheckFriendship(w http.ResponseWriter, r *http.Request) {
	userID, friendID, ok := h.friendPair(w, r)
	if !ok {
		return
	}

	result, err := h.userUsecase.CheckFriendship(r.Context(), userID, friendID)
	if err != nil {
		response.InternalServerError(w, "Failed to check friendship")
		return
	}

	response.Success(w, http.StatusOK, "Friendship checked successfully", result)
}

// friendPair reads the authenticated user from context and the friend from
// the request body.
func (h *UserHandler) friendPair(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return uuid.Nil, uuid.Nil, false
	}

	var req dto.FriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return uuid.Nil, uuid.Nil, false
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return uuid.Nil, uuid.Nil, false
	}

	friendID, err := uuid.Parse(req.FriendID)
	if err != nil {
		response.BadRequest(w, "Invalid friend ID")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, friendID, true
}

func (h *UserHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	var req dto.ApproveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	user, err := h.userUsecase.ApproveUser(r.Context(), userID)
	if err != nil {
		if err == usecase.ErrUserNotFound {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalServerError(w, "Failed to approve user")
		return
	}

	response.Success(w, http.StatusOK, "User approved successfully", user)
}
