package repository

import (
	"context"

	"finishline/internal/app/ds"

	"gorm.io/gorm"
)

func preloadChangeRequest(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Submitter").
		Preload("Reviewer").
		Preload("WBSElement").
		Preload("Changes", func(db *gorm.DB) *gorm.DB {
			return db.Order("date_implemented")
		}).
		Preload("Changes.Implementer").
		Preload("ActivationCR.ProjectLead").
		Preload("ActivationCR.ProjectManager").
		Preload("StageGateCR").
		Preload("ScopeCR.Why").
		Preload("ScopeCR.ProposedSolutions.CreatedBy")
}

func (r *Repository) ListChangeRequests(ctx context.Context) ([]ds.ChangeRequest, error) {
	var crs []ds.ChangeRequest
	err := preloadChangeRequest(r.db.WithContext(ctx)).
		Order("cr_id").
		Find(&crs).Error
	return crs, err
}

func (r *Repository) GetChangeRequest(ctx context.Context, id uint) (*ds.ChangeRequest, error) {
	var cr ds.ChangeRequest
	err := preloadChangeRequest(r.db.WithContext(ctx)).
		Where("cr_id = ?", id).
		First(&cr).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cr, nil
}

// CreateChangeRequest inserts the request with its type specific record.
func (r *Repository) CreateChangeRequest(ctx context.Context, cr *ds.ChangeRequest) error {
	return r.db.WithContext(ctx).
		Omit("Submitter", "Reviewer", "WBSElement", "Changes").
		Create(cr).Error
}

// ReviewChangeRequest records the decision only while the request is still pending.
func (r *Repository) ReviewChangeRequest(ctx context.Context, review ds.ChangeRequestReview) error {
	result := r.db.WithContext(ctx).
		Model(&ds.ChangeRequest{}).
		Where("cr_id = ? AND accepted IS NULL", review.CRID).
		Updates(map[string]interface{}{
			"reviewer_id":   review.ReviewerID,
			"accepted":      review.Accepted,
			"review_notes":  review.Notes,
			"date_reviewed": review.ReviewedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (r *Repository) GetProposedSolution(ctx context.Context, id uint) (*ds.ProposedSolution, error) {
	var ps ds.ProposedSolution
	err := r.db.WithContext(ctx).Where("proposed_solution_id = ?", id).First(&ps).Error
	if err != nil {
		return nil, translate(err)
	}
	return &ps, nil
}

func (r *Repository) CreateProposedSolution(ctx context.Context, ps *ds.ProposedSolution) error {
	return r.db.WithContext(ctx).Omit("CreatedBy").Create(ps).Error
}

func (r *Repository) ApproveProposedSolution(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&ds.ProposedSolution{}).
		Where("proposed_solution_id = ?", id).
		Update("approved", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateChanges appends audit lines. Changes are never updated afterwards.
func (r *Repository) CreateChanges(ctx context.Context, changes []ds.Change) error {
	if len(changes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Implementer").Create(&changes).Error
}
