package service

import (
	"regexp"
	"strings"
	"time"

	"socialbook/dao"
	"socialbook/internal/auth"
	"socialbook/model"
	"socialbook/utils"
)

// SearchLimit caps directory search results.
const SearchLimit = 25

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserService owns registration, authentication and profile rules.
type UserService struct {
	users  UserStore
	photos PhotoStore
}

func NewUserService(users UserStore, photos PhotoStore) *UserService {
	return &UserService{users: users, photos: photos}
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
	Role        string
}

type ProfileInput struct {
	Username    string
	Email       string
	FullName    string
	PhoneNumber string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateProfileFields collects every violation instead of stopping at the
// first, so forms can show all messages at once.
func validateProfileFields(username, email, fullName string) map[string]string {
	fields := make(map[string]string)
	if username == "" {
		fields["username"] = "username is required"
	}
	if email == "" {
		fields["email"] = "email is required"
	} else if !emailRe.MatchString(email) {
		fields["email"] = "please provide a valid email address"
	}
	if fullName == "" {
		fields["full_name"] = "full name is required"
	}
	return fields
}

// checkUnique names the colliding field, excluding the user's own row.
func (s *UserService) checkUnique(username, email string, excludeID uint64) error {
	taken, err := s.users.UsernameTaken(username, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return &DuplicateFieldError{Field: "username"}
	}
	taken, err = s.users.EmailTaken(email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return &DuplicateFieldError{Field: "email"}
	}
	return nil
}

// classifyDuplicate resolves which unique field a lost insert race collided
// on, after the storage layer rejected the write.
func (s *UserService) classifyDuplicate(email string, excludeID uint64) error {
	taken, err := s.users.EmailTaken(email, excludeID)
	if err == nil && taken {
		return &DuplicateFieldError{Field: "email"}
	}
	return &DuplicateFieldError{Field: "username"}
}

// Register validates, enforces uniqueness and persists a new user. The raw
// credential is digested with bcrypt and never stored.
func (s *UserService) Register(in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)
	phoneNumber := strings.TrimSpace(in.PhoneNumber)

	fields := validateProfileFields(username, email, fullName)
	if in.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.checkUnique(username, email, 0); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	role := model.RoleUser
	if in.Role == model.RoleAdmin {
		role = model.RoleAdmin
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		PhoneNumber:  phoneNumber,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.CreateUser(user); err != nil {
		if dao.IsDuplicateKey(err) {
			return nil, s.classifyDuplicate(email, 0)
		}
		return nil, err
	}
	return user, nil
}

// Authenticate looks the user up by normalized email and checks the bcrypt
// digest. Unknown email, wrong password and an inactive account all fail
// with the same ErrInvalidCredentials.
func (s *UserService) Authenticate(email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(normalizeEmail(email))
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateProfile applies a partial update with the same validation and
// uniqueness rules as registration.
func (s *UserService) UpdateProfile(id uint64, in ProfileInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)
	phoneNumber := strings.TrimSpace(in.PhoneNumber)

	if fields := validateProfileFields(username, email, fullName); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	if err := s.checkUnique(username, email, id); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfileFields(id, username, email, fullName, phoneNumber)
	if err != nil {
		if dao.IsDuplicateKey(err) {
			return nil, s.classifyDuplicate(email, id)
		}
		if dao.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// FindByID 根据 ID 获取用户
func (s *UserService) FindByID(id uint64) (*model.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Search returns up to SearchLimit users whose username or email contains
// the query, case-insensitively, newest accounts first.
func (s *UserService) Search(query string) ([]model.User, error) {
	return s.users.Search(strings.TrimSpace(query), SearchLimit)
}

// AdminUserView is one row of the admin listing.
type AdminUserView struct {
	ID            uint64    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	PhoneNumber   string    `json:"phone_number"`
	Role          string    `json:"role"`
	IsActive      bool      `json:"is_active"`
	AvatarDataURL string    `json:"avatar_data_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListAll returns every user with a resolved avatar reference. Admin
// listing only.
func (s *UserService) ListAll() ([]AdminUserView, error) {
	users, err := s.users.ListAll()
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	primaries, err := s.photos.PrimaryByUsers(ids)
	if err != nil {
		return nil, err
	}
	views := make([]AdminUserView, 0, len(users))
	for i := range users {
		u := users[i]
		views = append(views, AdminUserView{
			ID:            u.ID,
			Username:      u.Username,
			Email:         u.Email,
			FullName:      u.FullName,
			PhoneNumber:   u.PhoneNumber,
			Role:          u.Role,
			IsActive:      u.IsActive,
			AvatarDataURL: avatarDataURL(&u, primaryOf(primaries, u.ID)),
			CreatedAt:     u.CreatedAt,
		})
	}
	return views, nil
}

// SessionProjection snapshots the fields the session carries. It must be
// re-issued whenever any of these fields change.
func SessionProjection(user *model.User) auth.SessionUser {
	return auth.SessionUser{
		ID:          user.ID,
		Username:    user.Username,
		FullName:    user.FullName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
	}
}
