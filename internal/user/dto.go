package user

import "time"

// UserResponse is the body of GET /users/me. The anonymous caller has id 0 and no timestamps.
type UserResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	IsActive    bool       `json:"is_active"`
	IsAnonymous bool       `json:"is_anonymous"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

func AnonymousResponse() *UserResponse {
	return &UserResponse{IsAnonymous: true}
}
