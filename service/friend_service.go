package service

import (
	"time"

	"socialbook/dao"
	"socialbook/model"
)

// FriendService owns the directed friendship graph and the annotated
// directory search built on top of it.
type FriendService struct {
	users       UserStore
	friendships FriendshipStore
	photos      PhotoStore
}

func NewFriendService(users UserStore, friendships FriendshipStore, photos PhotoStore) *FriendService {
	return &FriendService{users: users, friendships: friendships, photos: photos}
}

// FriendView is a friend resolved to its identity projection.
type FriendView struct {
	ID            uint64    `json:"id"`
	Username      string    `json:"username"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	AvatarDataURL string    `json:"avatar_data_url,omitempty"`
	AddedAt       time.Time `json:"added_at"`
}

// SearchResult is one directory hit annotated with friendship status
// relative to the searching user.
type SearchResult struct {
	ID            uint64    `json:"id"`
	Username      string    `json:"username"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	AvatarDataURL string    `json:"avatar_data_url,omitempty"`
	IsSelf        bool      `json:"is_self"`
	IsFriend      bool      `json:"is_friend"`
	CreatedAt     time.Time `json:"created_at"`
}

// AddFriend inserts the directed edge user -> friend and returns the friend
// so callers can name it in a notification. The duplicate check is the
// storage uniqueness constraint, so a losing concurrent insert still
// surfaces as ErrDuplicateFriend.
func (s *FriendService) AddFriend(userID, friendID uint64) (*model.User, error) {
	if friendID == userID {
		return nil, ErrSelfFriend
	}
	friend, err := s.users.FindByID(friendID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrFriendNotFound
		}
		return nil, err
	}
	edge := &model.Friendship{UserID: userID, FriendID: friendID}
	if err := s.friendships.Create(edge); err != nil {
		if dao.IsDuplicateKey(err) {
			return nil, ErrDuplicateFriend
		}
		return nil, err
	}
	return friend, nil
}

// ListFriends returns the user's outgoing edges newest-first, resolved to
// friend projections. Edges whose target no longer resolves are silently
// dropped.
func (s *FriendService) ListFriends(userID uint64) ([]FriendView, error) {
	friendships, err := s.friendships.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	friendIDs := make([]uint64, 0, len(friendships))
	for _, f := range friendships {
		if f.Friend.ID != 0 {
			friendIDs = append(friendIDs, f.Friend.ID)
		}
	}
	primaries, err := s.photos.PrimaryByUsers(friendIDs)
	if err != nil {
		return nil, err
	}

	views := make([]FriendView, 0, len(friendships))
	for _, f := range friendships {
		if f.Friend.ID == 0 {
			continue // dangling edge
		}
		friend := f.Friend
		views = append(views, FriendView{
			ID:            friend.ID,
			Username:      friend.Username,
			FullName:      friend.FullName,
			Email:         friend.Email,
			AvatarDataURL: avatarDataURL(&friend, primaryOf(primaries, friend.ID)),
			AddedAt:       f.CreatedAt,
		})
	}
	return views, nil
}

// SearchUsers runs the directory query and annotates each hit with
// {isSelf, isFriend}. The friendship lookup is one batched query over all
// candidate IDs, never one per candidate.
func (s *FriendService) SearchUsers(currentUserID uint64, query string) ([]SearchResult, error) {
	users, err := s.users.Search(query, SearchLimit)
	if err != nil {
		return nil, err
	}

	candidateIDs := make([]uint64, 0, len(users))
	for _, u := range users {
		candidateIDs = append(candidateIDs, u.ID)
	}
	friendSet, err := s.friendships.FriendIDSet(currentUserID, candidateIDs)
	if err != nil {
		return nil, err
	}
	primaries, err := s.photos.PrimaryByUsers(candidateIDs)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(users))
	for i := range users {
		u := users[i]
		results = append(results, SearchResult{
			ID:            u.ID,
			Username:      u.Username,
			FullName:      u.FullName,
			Email:         u.Email,
			AvatarDataURL: avatarDataURL(&u, primaryOf(primaries, u.ID)),
			IsSelf:        u.ID == currentUserID,
			IsFriend:      friendSet[u.ID],
			CreatedAt:     u.CreatedAt,
		})
	}
	return results, nil
}

func primaryOf(primaries map[uint64]model.Photo, userID uint64) *model.Photo {
	if p, ok := primaries[userID]; ok {
		return &p
	}
	return nil
}
