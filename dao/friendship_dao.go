package dao

import (
	"socialbook/model"

	"gorm.io/gorm"
)

type FriendshipDAO struct {
	db *gorm.DB
}

func NewFriendshipDAO(db *gorm.DB) *FriendshipDAO {
	return &FriendshipDAO{db: db}
}

// Create 插入一条有向好友边；重复的 (user_id, friend_id) 由唯一索引拒绝
func (dao *FriendshipDAO) Create(friendship *model.Friendship) error {
	return dao.db.Create(friendship).Error
}

// ListByUser returns the user's outgoing edges, newest first, with the
// friend record preloaded.
func (dao *FriendshipDAO) ListByUser(userID uint64) ([]model.Friendship, error) {
	var friendships []model.Friendship
	err := dao.db.Where("user_id = ?", userID).
		Preload("Friend").
		Order("created_at DESC, id DESC").
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}
	return friendships, nil
}

// FriendIDSet resolves which of the candidate IDs the user has already
// added, in a single IN-query.
func (dao *FriendshipDAO) FriendIDSet(userID uint64, candidateIDs []uint64) (map[uint64]bool, error) {
	set := make(map[uint64]bool, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return set, nil
	}
	var ids []uint64
	err := dao.db.Model(&model.Friendship{}).
		Where("user_id = ? AND friend_id IN ?", userID, candidateIDs).
		Pluck("friend_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
