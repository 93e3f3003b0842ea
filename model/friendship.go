package model

import "time"

// Friendship is a directed edge: UserID added FriendID. The composite
// unique index rejects a duplicate directed pair; the mirrored pair is a
// distinct edge, so the relation is not symmetric.
type Friendship struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;index;uniqueIndex:idx_friendships_pair" json:"user_id"`
	FriendID  uint64    `gorm:"not null;index;uniqueIndex:idx_friendships_pair" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`

	Friend User `gorm:"foreignKey:FriendID" json:"friend,omitempty"`
}
