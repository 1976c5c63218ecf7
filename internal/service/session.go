package service

import "freemusic/internal/domain"

// Session carries the identity of one authenticated user. Sessions are created
// by Login, threaded explicitly through every authenticated façade call, and
// invalidated by Logout. The stored snapshot never contains the password hash.
type Session struct {
	user *domain.User
}

// User returns the current account snapshot, or nil after Logout.
func (s *Session) User() *domain.User {
	if s == nil {
		return nil
	}
	return s.user
}

// LoggedIn reports whether the session still identifies a user.
func (s *Session) LoggedIn() bool {
	return s != nil && s.user != nil
}

func (s *Session) clear() {
	if s != nil {
		s.user = nil
	}
}

// action names an authenticated façade operation for policy lookup.
type action string

const (
	actionEditAccount  action = "edit_account"
	actionAddArtist    action = "add_artist"
	actionAddAlbum     action = "add_album"
	actionAddTrack     action = "add_track"
	actionAddGenre     action = "add_genre"
	actionDeleteArtist action = "delete_artist"
	actionDeleteAlbum  action = "delete_album"
	actionDeleteTrack  action = "delete_track"
	actionDeleteGenre  action = "delete_genre"
)

type role int

const (
	roleUser role = iota
	roleAdmin
)

// policy is the single action-to-role table every authenticated operation is
// checked against.
var policy = map[action]role{
	actionEditAccount:  roleUser,
	actionAddArtist:    roleAdmin,
	actionAddAlbum:     roleAdmin,
	actionAddTrack:     roleAdmin,
	actionAddGenre:     roleAdmin,
	actionDeleteArtist: roleAdmin,
	actionDeleteAlbum:  roleAdmin,
	actionDeleteTrack:  roleAdmin,
	actionDeleteGenre:  roleAdmin,
}

func authorize(sess *Session, act action) error {
	if !sess.LoggedIn() {
		return ErrPermissionDenied
	}
	required, known := policy[act]
	if !known {
		return ErrPermissionDenied
	}
	if required == roleAdmin && !sess.user.IsAdmin {
		return ErrPermissionDenied
	}
	return nil
}
