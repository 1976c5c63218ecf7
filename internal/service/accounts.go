package service

import (
	"context"
	"errors"
	"strings"

	"freemusic/internal/auth"
	"freemusic/internal/domain"
	"freemusic/internal/repository"
)

// Login authenticates a user and returns a fresh session. Unknown logins and
// password mismatches are indistinguishable to the caller.
func (l *Library) Login(ctx context.Context, login, password string) (*Session, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := l.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, translateStore("login", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	l.log.WithField("login", login).Info("user logged in")
	return &Session{user: sanitizeUser(user)}, nil
}

// Logout invalidates the session. Calling it on an already logged-out or nil
// session is a no-op.
func (l *Library) Logout(sess *Session) {
	if sess.LoggedIn() {
		l.log.WithField("login", sess.user.Login).Info("user logged out")
	}
	sess.clear()
}

// SignUp registers a new non-admin account.
func (l *Library) SignUp(ctx context.Context, login, password, username, bio string) (*domain.User, error) {
	login = strings.TrimSpace(login)
	username = strings.TrimSpace(username)
	bio = strings.TrimSpace(bio)

	if err := validateRange("login", login, credentialMinLen, credentialMaxLen); err != nil {
		return nil, err
	}
	if err := validateRange("password", password, credentialMinLen, credentialMaxLen); err != nil {
		return nil, err
	}
	if err := validateRange("username", username, credentialMinLen, credentialMaxLen); err != nil {
		return nil, err
	}
	if err := validateFreeText("bio", bio); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, &StoreError{Op: "sign up", Err: err}
	}

	user := &domain.User{
		Login:        login,
		PasswordHash: hash,
		Username:     username,
		Bio:          bio,
	}

	if _, err := l.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateLogin
		}
		return nil, translateStore("sign up", err)
	}

	l.log.WithField("login", login).Info("user signed up")
	return sanitizeUser(user), nil
}

// AccountUpdate describes an edit to the current account. Nil fields are left
// unchanged; a non-nil Password is rehashed before storage.
type AccountUpdate struct {
	Password *string
	Username *string
	Bio      *string
}

// EditAccount applies the update to the session's user and refreshes the
// in-memory snapshot from the store after the commit.
func (l *Library) EditAccount(ctx context.Context, sess *Session, update AccountUpdate) (*domain.User, error) {
	if err := authorize(sess, actionEditAccount); err != nil {
		return nil, err
	}

	if update.Password != nil {
		if err := validateRange("password", *update.Password, credentialMinLen, credentialMaxLen); err != nil {
			return nil, err
		}
	}
	if update.Username != nil {
		trimmed := strings.TrimSpace(*update.Username)
		update.Username = &trimmed
		if err := validateRange("username", trimmed, credentialMinLen, credentialMaxLen); err != nil {
			return nil, err
		}
	}
	if update.Bio != nil {
		trimmed := strings.TrimSpace(*update.Bio)
		update.Bio = &trimmed
		if err := validateFreeText("bio", trimmed); err != nil {
			return nil, err
		}
	}

	user, err := l.users.GetByID(ctx, sess.user.ID)
	if err != nil {
		return nil, translateStore("edit account", err)
	}

	if update.Password != nil {
		hash, err := auth.HashPassword(*update.Password)
		if err != nil {
			return nil, &StoreError{Op: "edit account", Err: err}
		}
		user.PasswordHash = hash
	}
	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}

	if err := l.users.Update(ctx, user); err != nil {
		return nil, translateStore("edit account", err)
	}

	fresh, err := l.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, translateStore("edit account", err)
	}
	sess.user = sanitizeUser(fresh)

	l.log.WithField("login", fresh.Login).Info("account updated")
	return sess.user, nil
}

// sanitizeUser strips the password hash before a user record leaves the façade.
func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
