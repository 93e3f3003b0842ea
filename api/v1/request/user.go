package request

// Required-ness is enforced by the service layer so every violated field is
// reported at once; the binding tags cover shape-only constraints.

type RegisterRequest struct {
	Username    string `json:"username" binding:"omitempty,max=50"`
	Email       string `json:"email" binding:"omitempty,max=255"`
	Password    string `json:"password"`
	FullName    string `json:"full_name" binding:"omitempty,max=100"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,phone"`
	Role        string `json:"role" binding:"omitempty,oneof=user admin"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ProfileRequest struct {
	Username    string `json:"username" binding:"omitempty,max=50"`
	Email       string `json:"email" binding:"omitempty,max=255"`
	FullName    string `json:"full_name" binding:"omitempty,max=100"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,phone"`
}

type AddFriendRequest struct {
	FriendID uint64 `json:"friend_id" binding:"required"`
}
