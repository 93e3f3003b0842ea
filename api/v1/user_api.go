package v1

import (
	"errors"
	"net/http"
	"time"

	"socialbook/api/v1/request"
	"socialbook/internal/auth"
	"socialbook/internal/metrics"
	"socialbook/middleware"
	"socialbook/model"
	"socialbook/service"

	"github.com/gin-gonic/gin"
)

// CookieConfig describes the session cookie the API issues.
type CookieConfig struct {
	Secret string
	Name   string
	TTL    time.Duration
}

// UserAPI exposes HTTP handlers for registration, login/logout, dashboard
// and profile flows.
type UserAPI struct {
	users    *service.UserService
	gallery  *service.GalleryService
	sessions *auth.SessionManager
	cookie   CookieConfig
}

func NewUserAPI(users *service.UserService, gallery *service.GalleryService, sessions *auth.SessionManager, cookie CookieConfig) *UserAPI {
	return &UserAPI{users: users, gallery: gallery, sessions: sessions, cookie: cookie}
}

// Register handles new account creation.
func (u *UserAPI) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncRegister("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := u.users.Register(service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
	})
	if err != nil {
		metrics.IncRegister("rejected")
		// Echo the submitted values (never the credential) so the
		// client can re-render the form.
		renderError(c, err, gin.H{"values": gin.H{
			"username":     req.Username,
			"email":        req.Email,
			"full_name":    req.FullName,
			"phone_number": req.PhoneNumber,
			"role":         req.Role,
		}})
		return
	}
	metrics.IncRegister("success")
	c.JSON(http.StatusCreated, gin.H{"message": "account created", "user": user})
}

// Login validates credentials, creates the server-side session and sets the
// signed session cookie.
func (u *UserAPI) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncLogin("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := u.users.Authenticate(req.Email, req.Password)
	if err != nil {
		metrics.IncLogin("unauthorized")
		renderError(c, err, nil)
		return
	}

	sessionID, err := u.sessions.Create(service.SessionProjection(user))
	if err != nil {
		metrics.IncLogin("internal_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session create failed"})
		return
	}
	token, err := auth.SignSession(u.cookie.Secret, sessionID, user.ID, u.cookie.TTL)
	if err != nil {
		metrics.IncLogin("internal_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session sign failed"})
		return
	}

	c.SetCookie(u.cookie.Name, token, int(u.cookie.TTL.Seconds()), "/", "", false, true)
	metrics.IncLogin("success")
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout destroys the session and clears the cookie.
func (u *UserAPI) Logout(c *gin.Context) {
	if err := u.sessions.Destroy(middleware.CurrentSessionID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.SetCookie(u.cookie.Name, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logout success"})
}

// Dashboard returns the current user, the gallery projection and any
// pending flash. A session whose user no longer resolves is destroyed.
func (u *UserAPI) Dashboard(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	user, err := u.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			_ = u.sessions.Destroy(middleware.CurrentSessionID(c))
			c.SetCookie(u.cookie.Name, "", -1, "/", "", false, true)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		renderError(c, err, nil)
		return
	}

	photos, err := u.gallery.List(userID)
	if err != nil {
		renderError(c, err, nil)
		return
	}

	flash, _ := u.sessions.PopFlash(middleware.CurrentSessionID(c))
	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"photos": photos,
		"flash":  flash,
	})
}

// GetProfile returns the editable profile fields plus any pending flash.
func (u *UserAPI) GetProfile(c *gin.Context) {
	user, err := u.users.FindByID(middleware.CurrentUserID(c))
	if err != nil {
		renderError(c, err, nil)
		return
	}
	flash, _ := u.sessions.PopFlash(middleware.CurrentSessionID(c))
	c.JSON(http.StatusOK, gin.H{
		"values": gin.H{
			"username":     user.Username,
			"email":        user.Email,
			"full_name":    user.FullName,
			"phone_number": user.PhoneNumber,
		},
		"flash": flash,
	})
}

// UpdateProfile applies the partial update, refreshes the session
// projection and leaves a success flash for the next page.
func (u *UserAPI) UpdateProfile(c *gin.Context) {
	var req request.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := u.users.UpdateProfile(middleware.CurrentUserID(c), service.ProfileInput{
		Username:    req.Username,
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		renderError(c, err, gin.H{"values": gin.H{
			"username":     req.Username,
			"email":        req.Email,
			"full_name":    req.FullName,
			"phone_number": req.PhoneNumber,
		}})
		return
	}

	sessionID := middleware.CurrentSessionID(c)
	if err := u.sessions.Refresh(sessionID, service.SessionProjection(user)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session refresh failed"})
		return
	}
	_ = u.sessions.SetFlash(sessionID, auth.Flash{Type: "success", Message: "Profile updated successfully."})

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// AdminListUsers lists every account. Non-admins are refused with an error
// flash, mirroring how the pages surface it.
func (u *UserAPI) AdminListUsers(c *gin.Context) {
	sessionUser := middleware.CurrentSessionUser(c)
	if sessionUser == nil || sessionUser.Role != model.RoleAdmin {
		_ = u.sessions.SetFlash(middleware.CurrentSessionID(c), auth.Flash{
			Type:    "error",
			Message: "Only administrators can view that page.",
		})
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}

	users, err := u.users.ListAll()
	if err != nil {
		renderError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
