package dao

import (
	"strings"

	"socialbook/model"

	"gorm.io/gorm"
)

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

// CreateUser 创建新用户
func (dao *UserDAO) CreateUser(user *model.User) error {
	return dao.db.Create(user).Error
}

// FindByEmail 根据邮箱查询用户
func (dao *UserDAO) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := dao.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID 根据 ID 查询用户
func (dao *UserDAO) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := dao.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameTaken reports whether another user already owns the username.
func (dao *UserDAO) UsernameTaken(username string, excludeID uint64) (bool, error) {
	var count int64
	err := dao.db.Model(&model.User{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count).Error
	return count > 0, err
}

// EmailTaken reports whether another user already owns the email.
func (dao *UserDAO) EmailTaken(email string, excludeID uint64) (bool, error) {
	var count int64
	err := dao.db.Model(&model.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

// UpdateProfileFields writes the editable profile columns only.
func (dao *UserDAO) UpdateProfileFields(id uint64, username, email, fullName, phoneNumber string) (*model.User, error) {
	err := dao.db.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"username":     username,
		"email":        email,
		"full_name":    fullName,
		"phone_number": phoneNumber,
	}).Error
	if err != nil {
		return nil, err
	}
	return dao.FindByID(id)
}

// escapeLike neutralizes LIKE wildcards in user-supplied search input.
func escapeLike(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(q)
}

// Search matches the query as a case-insensitive substring of username or
// email, newest accounts first, capped at limit.
func (dao *UserDAO) Search(query string, limit int) ([]model.User, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	var users []model.User
	err := dao.db.
		Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListAll returns every user, newest first. Admin listing only.
func (dao *UserDAO) ListAll() ([]model.User, error) {
	var users []model.User
	err := dao.db.Order("created_at DESC, id DESC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
