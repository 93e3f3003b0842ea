package service

import (
	"encoding/base64"

	"socialbook/model"
)

// AvatarSource is one normalized (content-type, bytes) pair for whatever
// image currently represents the user.
type AvatarSource struct {
	ContentType string
	Data        []byte
}

// ResolveAvatar picks the display avatar: the primary gallery photo when
// present, else the not-yet-migrated legacy blob, else nothing.
func ResolveAvatar(user *model.User, primary *model.Photo) (AvatarSource, bool) {
	if primary != nil && len(primary.Data) > 0 {
		return AvatarSource{ContentType: primary.ContentType, Data: primary.Data}, true
	}
	if len(user.AvatarData) > 0 {
		contentType := user.AvatarContentType
		if contentType == "" {
			contentType = "image/jpeg"
		}
		return AvatarSource{ContentType: contentType, Data: user.AvatarData}, true
	}
	return AvatarSource{}, false
}

// DataURL renders image bytes as an inline data URL for the client.
func DataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// avatarDataURL is the projection form of ResolveAvatar; empty string means
// the user has no avatar, which is not an error.
func avatarDataURL(user *model.User, primary *model.Photo) string {
	src, ok := ResolveAvatar(user, primary)
	if !ok {
		return ""
	}
	return DataURL(src.ContentType, src.Data)
}
