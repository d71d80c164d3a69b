// Package userdir resolves user ids to display names.
package userdir

import (
	"context"
	"fmt"
	"time"

	"finishline/internal/app/ds"

	log "github.com/sirupsen/logrus"
)

type UserGetter interface {
	GetUser(ctx context.Context, id uint) (*ds.User, error)
}

type NameCache interface {
	GetUserName(ctx context.Context, userID uint) (string, bool, error)
	SetUserName(ctx context.Context, userID uint, name string, ttl time.Duration) error
}

type Directory struct {
	users UserGetter
	cache NameCache
	ttl   time.Duration
}

// New builds a directory. cache may be nil.
func New(users UserGetter, cache NameCache, ttl time.Duration) *Directory {
	return &Directory{users: users, cache: cache, ttl: ttl}
}

// FullName returns "First Last" for the user. A cache failure falls back to the store.
func (d *Directory) FullName(ctx context.Context, userID uint) (string, error) {
	if d.cache != nil {
		name, ok, err := d.cache.GetUserName(ctx, userID)
		if err != nil {
			log.WithError(err).Warnf("user name cache read failed for user %d", userID)
		} else if ok {
			return name, nil
		}
	}

	user, err := d.users.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get user %d: %w", userID, err)
	}
	name := user.FullName()

	if d.cache != nil {
		if err := d.cache.SetUserName(ctx, userID, name, d.ttl); err != nil {
			log.WithError(err).Warnf("user name cache write failed for user %d", userID)
		}
	}
	return name, nil
}
