package service

import (
	"sort"
	"strings"
	"time"

	"socialbook/dao"
	"socialbook/model"

	"gorm.io/gorm"
)

// In-memory store fakes. They return the same gorm sentinel errors the real
// DAOs surface, so the services' error classification is exercised for real.

type fakeUserStore struct {
	users  map[uint64]*model.User
	nextID uint64
	now    time.Time
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint64]*model.User), now: time.Now()}
}

func (f *fakeUserStore) CreateUser(user *model.User) error {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.now = f.now.Add(time.Second)
	user.CreatedAt = f.now
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) FindByID(id uint64) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) UsernameTaken(username string, excludeID uint64) (bool, error) {
	for _, u := range f.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) EmailTaken(email string, excludeID uint64) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) UpdateProfileFields(id uint64, username, email, fullName, phoneNumber string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for _, other := range f.users {
		if other.ID == id {
			continue
		}
		if other.Username == username || other.Email == email {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	u.Username = username
	u.Email = email
	u.FullName = fullName
	u.PhoneNumber = phoneNumber
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) Search(query string, limit int) ([]model.User, error) {
	q := strings.ToLower(query)
	var matches []model.User
	for _, u := range f.users {
		if strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.Email), q) {
			matches = append(matches, *u)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (f *fakeUserStore) ListAll() ([]model.User, error) {
	var users []model.User
	for _, u := range f.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}

type fakePhotoStore struct {
	users  *fakeUserStore
	photos map[uint64][]model.Photo
	nextID uint64
}

func newFakePhotoStore(users *fakeUserStore) *fakePhotoStore {
	return &fakePhotoStore{users: users, photos: make(map[uint64][]model.Photo)}
}

func (f *fakePhotoStore) ListByUser(userID uint64) ([]model.Photo, error) {
	return append([]model.Photo(nil), f.photos[userID]...), nil
}

func (f *fakePhotoStore) Append(photo *model.Photo) error {
	if len(f.photos[photo.UserID]) >= model.MaxPhotos {
		return dao.ErrCapacityReached
	}
	f.nextID++
	photo.ID = f.nextID
	f.photos[photo.UserID] = append(f.photos[photo.UserID], *photo)
	return nil
}

func (f *fakePhotoStore) Remove(userID, photoID uint64) error {
	photos := f.photos[userID]
	for i, p := range photos {
		if p.ID == photoID {
			f.photos[userID] = append(photos[:i:i], photos[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakePhotoStore) MigrateLegacyAvatar(userID uint64) error {
	u, ok := f.users.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if len(u.AvatarData) == 0 || len(f.photos[userID]) > 0 {
		return nil
	}
	contentType := u.AvatarContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	f.nextID++
	f.photos[userID] = append(f.photos[userID], model.Photo{
		ID:          f.nextID,
		UserID:      userID,
		Data:        u.AvatarData,
		ContentType: contentType,
		UploadedAt:  time.Now(),
	})
	u.AvatarData = nil
	u.AvatarContentType = ""
	return nil
}

func (f *fakePhotoStore) PrimaryByUsers(userIDs []uint64) (map[uint64]model.Photo, error) {
	result := make(map[uint64]model.Photo)
	for _, id := range userIDs {
		if photos := f.photos[id]; len(photos) > 0 {
			result[id] = photos[0]
		}
	}
	return result, nil
}

type fakeFriendshipStore struct {
	users  *fakeUserStore
	edges  []model.Friendship
	nextID uint64
	now    time.Time
}

func newFakeFriendshipStore(users *fakeUserStore) *fakeFriendshipStore {
	return &fakeFriendshipStore{users: users, now: time.Now()}
}

func (f *fakeFriendshipStore) Create(friendship *model.Friendship) error {
	for _, e := range f.edges {
		if e.UserID == friendship.UserID && e.FriendID == friendship.FriendID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	friendship.ID = f.nextID
	f.now = f.now.Add(time.Second)
	friendship.CreatedAt = f.now
	f.edges = append(f.edges, *friendship)
	return nil
}

func (f *fakeFriendshipStore) ListByUser(userID uint64) ([]model.Friendship, error) {
	var result []model.Friendship
	for _, e := range f.edges {
		if e.UserID != userID {
			continue
		}
		edge := e
		if friend, ok := f.users.users[e.FriendID]; ok {
			edge.Friend = *friend
		}
		result = append(result, edge)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (f *fakeFriendshipStore) FriendIDSet(userID uint64, candidateIDs []uint64) (map[uint64]bool, error) {
	candidates := make(map[uint64]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		candidates[id] = true
	}
	set := make(map[uint64]bool)
	for _, e := range f.edges {
		if e.UserID == userID && candidates[e.FriendID] {
			set[e.FriendID] = true
		}
	}
	return set, nil
}
