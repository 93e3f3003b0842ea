package service

import (
	"testing"

	"socialbook/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFriendFixture(t *testing.T) (*FriendService, *fakeUserStore, *fakeFriendshipStore, *fakePhotoStore) {
	t.Helper()
	users := newFakeUserStore()
	photos := newFakePhotoStore(users)
	friendships := newFakeFriendshipStore(users)
	return NewFriendService(users, friendships, photos), users, friendships, photos
}

func addUser(t *testing.T, users *fakeUserStore, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@x.com",
		PasswordHash: "x",
		FullName:     username,
		IsActive:     true,
	}
	require.NoError(t, users.CreateUser(user))
	return user
}

func TestAddFriendSelfReference(t *testing.T) {
	s, users, friendships, _ := newFriendFixture(t)
	alice := addUser(t, users, "alice")

	_, err := s.AddFriend(alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFriend)
	assert.Empty(t, friendships.edges, "no edge is created")
}

func TestAddFriendTargetNotFound(t *testing.T) {
	s, users, _, _ := newFriendFixture(t)
	alice := addUser(t, users, "alice")

	_, err := s.AddFriend(alice.ID, 999)
	assert.ErrorIs(t, err, ErrFriendNotFound)
}

func TestAddFriendDuplicateEdge(t *testing.T) {
	s, users, friendships, _ := newFriendFixture(t)
	alice := addUser(t, users, "alice")
	bob := addUser(t, users, "bob")

	friend, err := s.AddFriend(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", friend.Username, "the added friend is returned for the notification")

	_, err = s.AddFriend(bob.ID, alice.ID)
	assert.ErrorIs(t, err, ErrDuplicateFriend)
	assert.Len(t, friendships.edges, 1, "exactly one edge survives the repeated add")
}

func TestMirroredEdgeIsIndependentlyInsertable(t *testing.T) {
	s, users, friendships, _ := newFriendFixture(t)
	alice := addUser(t, users, "alice")
	bob := addUser(t, users, "bob")

	_, err := s.AddFriend(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = s.AddFriend(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, friendships.edges, 2)
}

func TestListFriendsNewestFirstWithAvatars(t *testing.T) {
	s, users, _, photos := newFriendFixture(t)
	alice := addUser(t, users, "alice")
	bob := addUser(t, users, "bob")
	carol := addUser(t, users, "carol")

	require.NoError(t, photos.Append(&model.Photo{UserID: bob.ID, Data: []byte("pic"), ContentType: "image/jpeg"}))

	_, err := s.AddFriend(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = s.AddFriend(alice.ID, carol.ID)
	require.NoError(t, err)

	friends, err := s.ListFriends(alice.ID)
	require.NoError(t, err)
	require.Len(t, friends, 2)
	assert.Equal(t, "carol", friends[0].Username, "newest edge first")
	assert.Equal(t, "bob", friends[1].Username)
	assert.NotEmpty(t, friends[1].AvatarDataURL)
	assert.Empty(t, friends[0].AvatarDataURL)
}

func TestListFriendsFiltersDanglingEdges(t *testing.T) {
	s, users, _, _ := newFriendFixture(t)
	alice := addUser(t, users, "alice")
	bob := addUser(t, users, "bob")

	_, err := s.AddFriend(alice.ID, bob.ID)
	require.NoError(t, err)
	delete(users.users, bob.ID)

	friends, err := s.ListFriends(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, friends, "edges to removed users are silently dropped")
}

func TestSearchUsersAnnotation(t *testing.T) {
	s, users, _, _ := newFriendFixture(t)
	alice := addUser(t, users, "alice")
	bob := addUser(t, users, "bob")

	results, err := s.SearchUsers(bob.ID, "alice")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].IsFriend)
	assert.False(t, results[0].IsSelf)

	_, err = s.AddFriend(bob.ID, alice.ID)
	require.NoError(t, err)

	results, err = s.SearchUsers(bob.ID, "@x.com")
	require.NoError(t, err)
	require.Len(t, results, 2)
	byName := map[string]SearchResult{}
	for _, r := range results {
		byName[r.Username] = r
	}
	assert.True(t, byName["alice"].IsFriend)
	assert.False(t, byName["alice"].IsSelf)
	assert.True(t, byName["bob"].IsSelf)
	assert.False(t, byName["bob"].IsFriend)
}
