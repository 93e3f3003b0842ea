package dao

import (
	"errors"
	"time"

	"socialbook/model"

	"gorm.io/gorm"
)

// ErrCapacityReached is returned when an append would exceed model.MaxPhotos.
var ErrCapacityReached = errors.New("photo capacity reached")

type PhotoDAO struct {
	db *gorm.DB
}

func NewPhotoDAO(db *gorm.DB) *PhotoDAO {
	return &PhotoDAO{db: db}
}

// ListByUser 查询用户的全部照片，按插入顺序
func (dao *PhotoDAO) ListByUser(userID uint64) ([]model.Photo, error) {
	var photos []model.Photo
	err := dao.db.Where("user_id = ?", userID).Order("id ASC").Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// Append inserts a photo at the end of the gallery. The capacity check and
// the insert run in one transaction so the count is never a stale cache.
func (dao *PhotoDAO) Append(photo *model.Photo) error {
	return dao.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Photo{}).Where("user_id = ?", photo.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count >= model.MaxPhotos {
			return ErrCapacityReached
		}
		return tx.Create(photo).Error
	})
}

// Remove deletes one photo owned by the user. Ordering of the remaining
// rows is untouched, so later elements shift down by one.
func (dao *PhotoDAO) Remove(userID, photoID uint64) error {
	return dao.db.Where("id = ? AND user_id = ?", photoID, userID).Delete(&model.Photo{}).Error
}

// PrimaryByUsers returns each user's oldest photo (the gallery's index 0)
// for a batch of user IDs, in a single query.
func (dao *PhotoDAO) PrimaryByUsers(userIDs []uint64) (map[uint64]model.Photo, error) {
	result := make(map[uint64]model.Photo, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}
	sub := dao.db.Model(&model.Photo{}).Select("MIN(id)").Where("user_id IN ?", userIDs).Group("user_id")
	var photos []model.Photo
	if err := dao.db.Where("id IN (?)", sub).Find(&photos).Error; err != nil {
		return nil, err
	}
	for _, p := range photos {
		result[p.UserID] = p
	}
	return result, nil
}

// MigrateLegacyAvatar moves the deprecated single-slot avatar into the
// gallery as its sole element and clears the legacy columns. A user with
// any photo, or no legacy blob, is left untouched, so the call is
// idempotent.
func (dao *PhotoDAO) MigrateLegacyAvatar(userID uint64) error {
	return dao.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if len(user.AvatarData) == 0 {
			return nil
		}
		var count int64
		if err := tx.Model(&model.Photo{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		contentType := user.AvatarContentType
		if contentType == "" {
			contentType = "image/jpeg"
		}
		photo := model.Photo{
			UserID:      userID,
			Data:        user.AvatarData,
			ContentType: contentType,
			UploadedAt:  time.Now(),
		}
		if err := tx.Create(&photo).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"avatar_data":         nil,
			"avatar_content_type": "",
		}).Error
	})
}
