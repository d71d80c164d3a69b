package repository

import (
	"context"
	"time"

	"finishline/internal/app/ds"

	"gorm.io/gorm"
)

func preloadProject(db *gorm.DB) *gorm.DB {
	return db.
		Preload("WBSElement.ProjectLead").
		Preload("WBSElement.ProjectManager").
		Preload("WBSElement.Changes", func(db *gorm.DB) *gorm.DB {
			return db.Order("date_implemented")
		}).
		Preload("WBSElement.Changes.Implementer").
		Preload("Team").
		Preload("Goals", activeBullets).
		Preload("Features", activeBullets).
		Preload("OtherConstraints", activeBullets).
		Preload("WorkPackages", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_in_project")
		}).
		Preload("WorkPackages.WBSElement").
		Preload("WorkPackages.ExpectedActivities", activeBullets).
		Preload("WorkPackages.Deliverables", activeBullets).
		Preload("WorkPackages.Dependencies")
}

func (r *Repository) ListProjects(ctx context.Context) ([]ds.Project, error) {
	var projects []ds.Project
	err := preloadProject(r.db.WithContext(ctx)).
		Order("project_id").
		Find(&projects).Error
	return projects, err
}

func (r *Repository) GetProject(ctx context.Context, id uint) (*ds.Project, error) {
	var project ds.Project
	err := preloadProject(r.db.WithContext(ctx)).
		Where("project_id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (r *Repository) GetProjectByNumber(ctx context.Context, n ds.WBSNumber) (*ds.Project, error) {
	var project ds.Project
	err := preloadProject(r.db.WithContext(ctx)).
		Joins("JOIN wbs_elements ON wbs_elements.wbs_element_id = projects.wbs_element_id").
		Where("wbs_elements.car_number = ? AND wbs_elements.project_number = ? AND wbs_elements.work_package_number = 0",
			n.CarNumber, n.ProjectNumber).
		First(&project).Error
	if err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

// HighestProjectNumber is 0 when the car has no projects yet.
func (r *Repository) HighestProjectNumber(ctx context.Context, carNumber int) (int, error) {
	var highest int
	err := r.db.WithContext(ctx).
		Model(&ds.WBSElement{}).
		Select("COALESCE(MAX(project_number), 0)").
		Where("car_number = ? AND work_package_number = 0", carNumber).
		Scan(&highest).Error
	return highest, err
}

// CreateProject inserts the project's WBS element and then the project row.
// Callers run it inside a transaction.
func (r *Repository) CreateProject(ctx context.Context, project *ds.Project) error {
	db := r.db.WithContext(ctx)
	if project.WBSElement.DateCreated.IsZero() {
		project.WBSElement.DateCreated = time.Now()
	}
	if err := db.Create(&project.WBSElement).Error; err != nil {
		return err
	}
	project.WBSElementID = project.WBSElement.WBSElementID
	return db.Omit("WBSElement", "Team", "WorkPackages", "Goals", "Features", "OtherConstraints").
		Create(project).Error
}

func (r *Repository) UpdateProject(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&ds.Project{}).
		Where("project_id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
