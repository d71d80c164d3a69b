package changerequest

import (
	"context"
	"errors"
	"fmt"

	"finishline/internal/app/ds"
	"finishline/internal/app/repository"

	log "github.com/sirupsen/logrus"
)

// CheckDescriptionBullet toggles the checked state of a bullet. Checking
// stamps the user and time, unchecking clears both.
func (s *Service) CheckDescriptionBullet(ctx context.Context, userID, descriptionID uint) (*ds.DescriptionBullet, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	bullet, err := s.store.GetBullet(ctx, descriptionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("description bullet with id #%d not found", descriptionID)
	}
	if err != nil {
		return nil, fmt.Errorf("get description bullet %d: %w", descriptionID, err)
	}
	if bullet.DateDeleted != nil {
		return nil, validationError("description bullet #%d has been deleted", descriptionID)
	}

	if bullet.DateTimeChecked != nil {
		bullet.UserCheckedID = nil
		bullet.DateTimeChecked = nil
	} else {
		now := s.now()
		bullet.UserCheckedID = &userID
		bullet.DateTimeChecked = &now
	}
	if err := s.store.SetBulletChecked(ctx, descriptionID, bullet.UserCheckedID, bullet.DateTimeChecked); err != nil {
		return nil, fmt.Errorf("check description bullet %d: %w", descriptionID, err)
	}

	log.WithFields(log.Fields{
		"description_id": descriptionID,
		"checked":        bullet.DateTimeChecked != nil,
	}).Info("description bullet toggled")
	return bullet, nil
}
