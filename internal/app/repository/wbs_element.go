package repository

import (
	"context"

	"finishline/internal/app/ds"
)

func (r *Repository) GetWBSElement(ctx context.Context, id uint) (*ds.WBSElement, error) {
	var elem ds.WBSElement
	err := r.db.WithContext(ctx).
		Preload("WorkPackage").
		Where("wbs_element_id = ?", id).
		First(&elem).Error
	if err != nil {
		return nil, translate(err)
	}
	return &elem, nil
}

func (r *Repository) GetWBSElementByNumber(ctx context.Context, n ds.WBSNumber) (*ds.WBSElement, error) {
	var elem ds.WBSElement
	err := r.db.WithContext(ctx).
		Where("car_number = ? AND project_number = ? AND work_package_number = ?",
			n.CarNumber, n.ProjectNumber, n.WorkPackageNumber).
		First(&elem).Error
	if err != nil {
		return nil, translate(err)
	}
	return &elem, nil
}

func (r *Repository) ListWBSElements(ctx context.Context) ([]ds.WBSElement, error) {
	var elems []ds.WBSElement
	err := r.db.WithContext(ctx).
		Order("car_number, project_number, work_package_number").
		Find(&elems).Error
	return elems, err
}

// GetEnclosingProject returns the project a WBS element is, or belongs to,
// with its team and WBS element loaded.
func (r *Repository) GetEnclosingProject(ctx context.Context, wbsElementID uint) (*ds.Project, error) {
	var project ds.Project
	err := r.db.WithContext(ctx).
		Preload("Team").
		Preload("WBSElement").
		Where("wbs_element_id = ? OR project_id = (SELECT project_id FROM work_packages WHERE wbs_element_id = ?)",
			wbsElementID, wbsElementID).
		First(&project).Error
	if err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

// WBSNumbers maps WBS element ids to their dotted numbers. Unknown ids are absent.
func (r *Repository) WBSNumbers(ctx context.Context, ids []uint) (map[uint]string, error) {
	numbers := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return numbers, nil
	}

	var elems []ds.WBSElement
	err := r.db.WithContext(ctx).
		Select("wbs_element_id", "car_number", "project_number", "work_package_number").
		Where("wbs_element_id IN ?", ids).
		Find(&elems).Error
	if err != nil {
		return nil, err
	}

	for _, e := range elems {
		numbers[e.WBSElementID] = e.Number().String()
	}
	return numbers, nil
}

func (r *Repository) UpdateWBSElement(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&ds.WBSElement{}).
		Where("wbs_element_id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
