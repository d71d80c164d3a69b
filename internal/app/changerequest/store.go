package changerequest

import (
	"context"
	"time"

	"finishline/internal/app/ds"
	"finishline/internal/app/repository"
)

// Store is the persistence the service needs. Lookups return
// repository.ErrNotFound for missing rows.
type Store interface {
	// WithTransaction runs fn in one unit of work; any error rolls everything back.
	WithTransaction(ctx context.Context, fn func(tx Store) error) error

	GetUser(ctx context.Context, id uint) (*ds.User, error)

	GetWBSElement(ctx context.Context, id uint) (*ds.WBSElement, error)
	GetWBSElementByNumber(ctx context.Context, n ds.WBSNumber) (*ds.WBSElement, error)
	GetEnclosingProject(ctx context.Context, wbsElementID uint) (*ds.Project, error)
	WBSNumbers(ctx context.Context, ids []uint) (map[uint]string, error)
	UpdateWBSElement(ctx context.Context, id uint, fields map[string]interface{}) error

	ListChangeRequests(ctx context.Context) ([]ds.ChangeRequest, error)
	GetChangeRequest(ctx context.Context, id uint) (*ds.ChangeRequest, error)
	CreateChangeRequest(ctx context.Context, cr *ds.ChangeRequest) error
	// ReviewChangeRequest returns repository.ErrConflict when the request is no longer pending.
	ReviewChangeRequest(ctx context.Context, review ds.ChangeRequestReview) error

	GetProposedSolution(ctx context.Context, id uint) (*ds.ProposedSolution, error)
	CreateProposedSolution(ctx context.Context, ps *ds.ProposedSolution) error
	ApproveProposedSolution(ctx context.Context, id uint) error

	CreateChanges(ctx context.Context, changes []ds.Change) error

	ListWorkPackages(ctx context.Context) ([]ds.WorkPackage, error)
	GetWorkPackage(ctx context.Context, id uint) (*ds.WorkPackage, error)
	GetWorkPackageByNumber(ctx context.Context, n ds.WBSNumber) (*ds.WorkPackage, error)
	UpdateWorkPackage(ctx context.Context, id uint, fields map[string]interface{}) error
	SetDependencies(ctx context.Context, workPackageID uint, wbsElementIDs []uint) error
	AddBullets(ctx context.Context, bullets []ds.DescriptionBullet) error
	EditBullet(ctx context.Context, id uint, detail string) error
	DeleteBullets(ctx context.Context, ids []uint, at time.Time) error
	GetBullet(ctx context.Context, id uint) (*ds.DescriptionBullet, error)
	SetBulletChecked(ctx context.Context, id uint, userID *uint, at *time.Time) error

	ListProjects(ctx context.Context) ([]ds.Project, error)
	GetProject(ctx context.Context, id uint) (*ds.Project, error)
	GetProjectByNumber(ctx context.Context, n ds.WBSNumber) (*ds.Project, error)
	HighestProjectNumber(ctx context.Context, carNumber int) (int, error)
	// CreateProject inserts the project and its WBS element, filling in both ids.
	CreateProject(ctx context.Context, project *ds.Project) error
	UpdateProject(ctx context.Context, id uint, fields map[string]interface{}) error
}

// RepositoryStore adapts the gorm repository to Store.
type RepositoryStore struct {
	*repository.Repository
}

func NewRepositoryStore(r *repository.Repository) RepositoryStore {
	return RepositoryStore{Repository: r}
}

func (s RepositoryStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.Repository.Transaction(ctx, func(tx *repository.Repository) error {
		return fn(RepositoryStore{Repository: tx})
	})
}
