package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"socialbook/api/v1/request"
	"socialbook/internal/auth"
	"socialbook/internal/metrics"
	"socialbook/middleware"
	"socialbook/service"

	"github.com/gin-gonic/gin"
)

// FriendAPI exposes HTTP handlers for the friendship graph and the
// annotated directory search.
type FriendAPI struct {
	friends  *service.FriendService
	sessions *auth.SessionManager
}

func NewFriendAPI(friends *service.FriendService, sessions *auth.SessionManager) *FriendAPI {
	return &FriendAPI{friends: friends, sessions: sessions}
}

// Add inserts the directed edge current-user -> friend and leaves a flash
// naming the added friend.
func (f *FriendAPI) Add(c *gin.Context) {
	var req request.AddFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncFriendAdd("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid friend request"})
		return
	}

	sessionID := middleware.CurrentSessionID(c)
	friend, err := f.friends.AddFriend(middleware.CurrentUserID(c), req.FriendID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFriend):
			metrics.IncFriendAdd("self")
			_ = f.sessions.SetFlash(sessionID, auth.Flash{Type: "error", Message: "You cannot add yourself as a friend."})
		case errors.Is(err, service.ErrFriendNotFound):
			metrics.IncFriendAdd("not_found")
			_ = f.sessions.SetFlash(sessionID, auth.Flash{Type: "error", Message: "User not found."})
		case errors.Is(err, service.ErrDuplicateFriend):
			metrics.IncFriendAdd("duplicate")
			_ = f.sessions.SetFlash(sessionID, auth.Flash{Type: "error", Message: "You are already friends."})
		default:
			metrics.IncFriendAdd("internal_error")
		}
		renderError(c, err, nil)
		return
	}

	name := friend.FullName
	if name == "" {
		name = friend.Username
	}
	metrics.IncFriendAdd("success")
	_ = f.sessions.SetFlash(sessionID, auth.Flash{
		Type:    "success",
		Message: fmt.Sprintf("%s has been added to your friends.", name),
	})
	c.JSON(http.StatusCreated, gin.H{"message": "friend added"})
}

// List returns the current user's friends, newest first, plus any pending
// flash.
func (f *FriendAPI) List(c *gin.Context) {
	friends, err := f.friends.ListFriends(middleware.CurrentUserID(c))
	if err != nil {
		renderError(c, err, nil)
		return
	}
	flash, _ := f.sessions.PopFlash(middleware.CurrentSessionID(c))
	c.JSON(http.StatusOK, gin.H{"friends": friends, "flash": flash})
}

// Search runs the directory query annotated with friendship status. An
// empty query returns an empty result set, not an error.
func (f *FriendAPI) Search(c *gin.Context) {
	flash, _ := f.sessions.PopFlash(middleware.CurrentSessionID(c))
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{
			"query":        "",
			"has_searched": false,
			"users":        []service.SearchResult{},
			"flash":        flash,
		})
		return
	}

	results, err := f.friends.SearchUsers(middleware.CurrentUserID(c), query)
	if err != nil {
		renderError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"query":        query,
		"has_searched": true,
		"users":        results,
		"flash":        flash,
	})
}
