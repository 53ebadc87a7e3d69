package dto

type FriendRequest struct {
	FriendID string `json:"friend_id" validate:"required,uuid"`
}

type FriendshipResponse struct {
	Friends bool `json:"friends"`
}

type ApproveUserRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}
