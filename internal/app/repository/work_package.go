package repository

import (
	"context"
	"time"

	"finishline/internal/app/ds"

	"gorm.io/gorm"
)

type workPackageDependency struct {
	WorkPackageID uint `gorm:"primaryKey;column:work_package_id"`
	WBSElementID  uint `gorm:"primaryKey;column:wbs_element_id"`
}

func (workPackageDependency) TableName() string {
	return "work_package_dependencies"
}

func activeBullets(db *gorm.DB) *gorm.DB {
	return db.Where("date_deleted IS NULL").Order("description_id")
}

func preloadWorkPackage(db *gorm.DB) *gorm.DB {
	return db.
		Preload("WBSElement.ProjectLead").
		Preload("WBSElement.ProjectManager").
		Preload("WBSElement.Changes", func(db *gorm.DB) *gorm.DB {
			return db.Order("date_implemented")
		}).
		Preload("WBSElement.Changes.Implementer").
		Preload("Project.WBSElement").
		Preload("ExpectedActivities", activeBullets).
		Preload("Deliverables", activeBullets).
		Preload("Dependencies")
}

func (r *Repository) ListWorkPackages(ctx context.Context) ([]ds.WorkPackage, error) {
	var wps []ds.WorkPackage
	err := preloadWorkPackage(r.db.WithContext(ctx)).
		Order("work_package_id").
		Find(&wps).Error
	return wps, err
}

func (r *Repository) GetWorkPackage(ctx context.Context, id uint) (*ds.WorkPackage, error) {
	var wp ds.WorkPackage
	err := preloadWorkPackage(r.db.WithContext(ctx)).
		Where("work_package_id = ?", id).
		First(&wp).Error
	if err != nil {
		return nil, translate(err)
	}
	return &wp, nil
}

func (r *Repository) GetWorkPackageByNumber(ctx context.Context, n ds.WBSNumber) (*ds.WorkPackage, error) {
	var wp ds.WorkPackage
	err := preloadWorkPackage(r.db.WithContext(ctx)).
		Joins("JOIN wbs_elements ON wbs_elements.wbs_element_id = work_packages.wbs_element_id").
		Where("wbs_elements.car_number = ? AND wbs_elements.project_number = ? AND wbs_elements.work_package_number = ?",
			n.CarNumber, n.ProjectNumber, n.WorkPackageNumber).
		First(&wp).Error
	if err != nil {
		return nil, translate(err)
	}
	return &wp, nil
}

func (r *Repository) UpdateWorkPackage(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&ds.WorkPackage{}).
		Where("work_package_id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDependencies replaces the dependency set of a work package.
func (r *Repository) SetDependencies(ctx context.Context, workPackageID uint, wbsElementIDs []uint) error {
	db := r.db.WithContext(ctx)
	err := db.Where("work_package_id = ?", workPackageID).Delete(&workPackageDependency{}).Error
	if err != nil {
		return err
	}
	if len(wbsElementIDs) == 0 {
		return nil
	}

	rows := make([]workPackageDependency, 0, len(wbsElementIDs))
	for _, id := range wbsElementIDs {
		rows = append(rows, workPackageDependency{WorkPackageID: workPackageID, WBSElementID: id})
	}
	return db.Create(&rows).Error
}

func (r *Repository) AddBullets(ctx context.Context, bullets []ds.DescriptionBullet) error {
	if len(bullets) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("UserChecked").Create(&bullets).Error
}

func (r *Repository) EditBullet(ctx context.Context, id uint, detail string) error {
	result := r.db.WithContext(ctx).
		Model(&ds.DescriptionBullet{}).
		Where("description_id = ?", id).
		Update("detail", detail)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBullets soft deletes: the rows stay with date_deleted set.
func (r *Repository) DeleteBullets(ctx context.Context, ids []uint, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&ds.DescriptionBullet{}).
		Where("description_id IN ?", ids).
		Update("date_deleted", at).Error
}

func (r *Repository) GetBullet(ctx context.Context, id uint) (*ds.DescriptionBullet, error) {
	var bullet ds.DescriptionBullet
	err := r.db.WithContext(ctx).
		Where("description_id = ?", id).
		First(&bullet).Error
	if err != nil {
		return nil, translate(err)
	}
	return &bullet, nil
}

// SetBulletChecked writes both columns; nil values clear them.
func (r *Repository) SetBulletChecked(ctx context.Context, id uint, userID *uint, at *time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&ds.DescriptionBullet{}).
		Where("description_id = ?", id).
		Updates(map[string]interface{}{
			"user_checked_id":   userID,
			"date_time_checked": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
