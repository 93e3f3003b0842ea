package service

import "socialbook/model"

// Storage ports implemented by the dao package. Services depend on these
// so the business rules can be exercised against in-memory fakes.

type UserStore interface {
	CreateUser(user *model.User) error
	FindByEmail(email string) (*model.User, error)
	FindByID(id uint64) (*model.User, error)
	UsernameTaken(username string, excludeID uint64) (bool, error)
	EmailTaken(email string, excludeID uint64) (bool, error)
	UpdateProfileFields(id uint64, username, email, fullName, phoneNumber string) (*model.User, error)
	Search(query string, limit int) ([]model.User, error)
	ListAll() ([]model.User, error)
}

type PhotoStore interface {
	ListByUser(userID uint64) ([]model.Photo, error)
	Append(photo *model.Photo) error
	Remove(userID, photoID uint64) error
	MigrateLegacyAvatar(userID uint64) error
	PrimaryByUsers(userIDs []uint64) (map[uint64]model.Photo, error)
}

type FriendshipStore interface {
	Create(friendship *model.Friendship) error
	ListByUser(userID uint64) ([]model.Friendship, error)
	FriendIDSet(userID uint64, candidateIDs []uint64) (map[uint64]bool, error)
}
