package changerequest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finishline/internal/app/changes"
	"finishline/internal/app/ds"
	"finishline/internal/app/repository"
	"finishline/internal/app/role"

	log "github.com/sirupsen/logrus"
)

// WorkPackageEdit is the full desired state of a work package.
// Bullets with a negative id are new.
type WorkPackageEdit struct {
	UserID             uint
	WorkPackageID      uint
	CRID               uint
	Name               string
	StartDate          time.Time
	Duration           int
	Dependencies       []ds.WBSNumber
	ExpectedActivities []changes.Bullet
	Deliverables       []changes.Bullet
	Status             ds.WBSStatus
	ProjectLeadID      *uint
	ProjectManagerID   *uint
	Progress           int
}

func (s *Service) ListWorkPackages(ctx context.Context) ([]ds.WorkPackage, error) {
	wps, err := s.store.ListWorkPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list work packages: %w", err)
	}
	return wps, nil
}

func (s *Service) GetWorkPackage(ctx context.Context, n ds.WBSNumber) (*ds.WorkPackage, error) {
	if n.IsProject() {
		return nil, validationError("wbs number %s is a project, not a work package", n)
	}
	wp, err := s.store.GetWorkPackageByNumber(ctx, n)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("work package with wbs number %s not found", n)
	}
	if err != nil {
		return nil, fmt.Errorf("get work package %s: %w", n, err)
	}
	return wp, nil
}

// EditWorkPackage applies an accepted change request to a work package,
// recording one change per modified field.
func (s *Service) EditWorkPackage(ctx context.Context, in WorkPackageEdit) error {
	user, err := s.authorize(ctx, in.UserID, role.Member)
	if err != nil {
		return err
	}
	cr, err := s.acceptedChangeRequest(ctx, in.CRID)
	if err != nil {
		return err
	}

	wp, err := s.store.GetWorkPackage(ctx, in.WorkPackageID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("work package with id #%d not found", in.WorkPackageID)
	}
	if err != nil {
		return fmt.Errorf("get work package %d: %w", in.WorkPackageID, err)
	}
	elem := wp.WBSElement

	newDeps := make([]uint, 0, len(in.Dependencies))
	for _, n := range in.Dependencies {
		dep, err := s.wbsElement(ctx, n)
		if err != nil {
			return err
		}
		newDeps = append(newDeps, dep.WBSElementID)
	}
	oldDeps := make([]uint, 0, len(wp.Dependencies))
	for _, d := range wp.Dependencies {
		oldDeps = append(oldDeps, d.WBSElementID)
	}

	var details []string
	elemFields := map[string]interface{}{}
	wpFields := map[string]interface{}{}

	if d, ok := changes.Scalar("name", &elem.Name, in.Name); ok {
		details = append(details, d)
		elemFields["name"] = in.Name
	}
	if d, ok := changes.Scalar("status", &elem.Status, in.Status); ok {
		details = append(details, d)
		elemFields["status"] = in.Status
	}
	if in.ProjectLeadID != nil {
		d, err := s.userChange(ctx, "project lead", elem.ProjectLeadID, *in.ProjectLeadID)
		if err != nil {
			return err
		}
		if d != "" {
			details = append(details, d)
			elemFields["project_lead_id"] = *in.ProjectLeadID
		}
	}
	if in.ProjectManagerID != nil {
		d, err := s.userChange(ctx, "project manager", elem.ProjectManagerID, *in.ProjectManagerID)
		if err != nil {
			return err
		}
		if d != "" {
			details = append(details, d)
			elemFields["project_manager_id"] = *in.ProjectManagerID
		}
	}
	if d, ok := changes.Date("start date", wp.StartDate, in.StartDate); ok {
		details = append(details, d)
		wpFields["start_date"] = in.StartDate
	}
	if d, ok := changes.Scalar("duration", &wp.Duration, in.Duration); ok {
		details = append(details, d)
		wpFields["duration"] = in.Duration
	}
	if d, ok := changes.Scalar("progress", &wp.Progress, in.Progress); ok {
		details = append(details, d)
		wpFields["progress"] = in.Progress
	}

	depDetails, err := changes.Dependencies(ctx, s.store, "dependency", oldDeps, newDeps)
	var unresolved *changes.UnresolvedError
	if errors.As(err, &unresolved) {
		return notFound("%s", unresolved.Error())
	}
	if err != nil {
		return err
	}
	details = append(details, depDetails...)

	activities := changes.Bullets("expected activity", bulletsOf(wp.ExpectedActivities), in.ExpectedActivities)
	deliverables := changes.Bullets("deliverable", bulletsOf(wp.Deliverables), in.Deliverables)
	details = append(details, activities.Details...)
	details = append(details, deliverables.Details...)

	if len(details) == 0 {
		return nil
	}

	now := s.now()
	err = s.store.WithTransaction(ctx, func(tx Store) error {
		if len(elemFields) > 0 {
			if err := tx.UpdateWBSElement(ctx, elem.WBSElementID, elemFields); err != nil {
				return fmt.Errorf("update wbs element %d: %w", elem.WBSElementID, err)
			}
		}
		if len(wpFields) > 0 {
			if err := tx.UpdateWorkPackage(ctx, wp.WorkPackageID, wpFields); err != nil {
				return fmt.Errorf("update work package %d: %w", wp.WorkPackageID, err)
			}
		}
		if len(depDetails) > 0 {
			if err := tx.SetDependencies(ctx, wp.WorkPackageID, dedupe(newDeps)); err != nil {
				return fmt.Errorf("set dependencies: %w", err)
			}
		}
		wpID := wp.WorkPackageID
		if err := applyBullets(ctx, tx, activities, now, func(b *ds.DescriptionBullet) {
			b.WorkPackageIDExpectedActivities = &wpID
		}); err != nil {
			return err
		}
		if err := applyBullets(ctx, tx, deliverables, now, func(b *ds.DescriptionBullet) {
			b.WorkPackageIDDeliverables = &wpID
		}); err != nil {
			return err
		}
		return tx.CreateChanges(ctx, changeRows(cr.CRID, user.UserID, elem.WBSElementID, details, now))
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"work_package_id": wp.WorkPackageID,
		"cr_id":           cr.CRID,
		"changes":         len(details),
	}).Info("work package edited")
	return nil
}

func applyBullets(ctx context.Context, tx Store, diff changes.BulletDiff, now time.Time, attach func(*ds.DescriptionBullet)) error {
	if len(diff.DeletedIDs) > 0 {
		ids := make([]uint, 0, len(diff.DeletedIDs))
		for _, id := range diff.DeletedIDs {
			ids = append(ids, uint(id))
		}
		if err := tx.DeleteBullets(ctx, ids, now); err != nil {
			return fmt.Errorf("delete bullets: %w", err)
		}
	}

	if len(diff.AddedDetails) > 0 {
		added := make([]ds.DescriptionBullet, 0, len(diff.AddedDetails))
		for _, detail := range diff.AddedDetails {
			b := ds.DescriptionBullet{Detail: detail, DateAdded: now}
			attach(&b)
			added = append(added, b)
		}
		if err := tx.AddBullets(ctx, added); err != nil {
			return fmt.Errorf("add bullets: %w", err)
		}
	}

	for _, b := range diff.Edited {
		if err := tx.EditBullet(ctx, uint(b.ID), b.Detail); err != nil {
			return fmt.Errorf("edit bullet %d: %w", b.ID, err)
		}
	}
	return nil
}

func bulletsOf(list []ds.DescriptionBullet) []changes.Bullet {
	out := make([]changes.Bullet, 0, len(list))
	for _, b := range list {
		out = append(out, changes.Bullet{ID: int(b.DescriptionID), Detail: b.Detail})
	}
	return out
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
