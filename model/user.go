package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// MaxPhotos bounds the per-user gallery size.
const MaxPhotos = 10

type User struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	Username     string `gorm:"unique;not null;size:50" json:"username"`
	Email        string `gorm:"unique;not null;size:255" json:"email"`
	PasswordHash string `gorm:"not null;size:255" json:"-"`
	FullName     string `gorm:"not null;size:100" json:"full_name"`
	PhoneNumber  string `gorm:"size:20" json:"phone_number"`
	Role         string `gorm:"size:10;default:user" json:"role"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	// Legacy single-slot avatar, kept only so existing rows can be
	// migrated into the photo gallery. New writes go to Photos.
	AvatarData        []byte `gorm:"type:longblob" json:"-"`
	AvatarContentType string `gorm:"size:100" json:"-"`

	Photos    []Photo   `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Photo is one gallery element. Rows are insertion-ordered by ID; the
// oldest row (index 0) is the user's primary photo.
type Photo struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	UserID      uint64    `gorm:"not null;index" json:"user_id"`
	Data        []byte    `gorm:"type:longblob;not null" json:"-"`
	ContentType string    `gorm:"not null;size:100" json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func (Photo) TableName() string {
	return "user_photos"
}
