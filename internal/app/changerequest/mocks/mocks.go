package mocks

import (
	"context"
	"time"

	"finishline/internal/app/changerequest"
	"finishline/internal/app/ds"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Store is a mock for changerequest.Store. WithTransaction runs fn against the
// same mock, so expectations cover writes made inside the transaction too.
type Store struct {
	mock.Mock
}

func (m *Store) WithTransaction(ctx context.Context, fn func(tx changerequest.Store) error) error {
	m.Called(ctx)
	return fn(m)
}

func (m *Store) GetUser(ctx context.Context, id uint) (*ds.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*ds.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) GetWBSElement(ctx context.Context, id uint) (*ds.WBSElement, error) {
	args := m.Called(ctx, id)
	if e, ok := args.Get(0).(*ds.WBSElement); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) GetWBSElementByNumber(ctx context.Context, n ds.WBSNumber) (*ds.WBSElement, error) {
	args := m.Called(ctx, n)
	if e, ok := args.Get(0).(*ds.WBSElement); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) GetEnclosingProject(ctx context.Context, wbsElementID uint) (*ds.Project, error) {
	args := m.Called(ctx, wbsElementID)
	if p, ok := args.Get(0).(*ds.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) WBSNumbers(ctx context.Context, ids []uint) (map[uint]string, error) {
	args := m.Called(ctx, ids)
	if n, ok := args.Get(0).(map[uint]string); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) UpdateWBSElement(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *Store) ListChangeRequests(ctx context.Context) ([]ds.ChangeRequest, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]ds.ChangeRequest); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) GetChangeRequest(ctx context.Context, id uint) (*ds.ChangeRequest, error) {
	args := m.Called(ctx, id)
	if cr, ok := args.Get(0).(*ds.ChangeRequest); ok {
		return cr, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) CreateChangeRequest(ctx context.Context, cr *ds.ChangeRequest) error {
	args := m.Called(ctx, cr)
	return args.Error(0)
}

func (m *Store) ReviewChangeRequest(ctx context.Context, review ds.ChangeRequestReview) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *Store) GetProposedSolution(ctx context.Context, id uint) (*ds.ProposedSolution, error) {
	args := m.Called(ctx, id)
	if ps, ok := args.Get(0).(*ds.ProposedSolution); ok {
		return ps, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) CreateProposedSolution(ctx context.Context, ps *ds.ProposedSolution) error {
	args := m.Called(ctx, ps)
	return args.Error(0)
}

func (m *Store) ApproveProposedSolution(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Store) CreateChanges(ctx context.Context, changes []ds.Change) error {
	args := m.Called(ctx, changes)
	return args.Error(0)
}

func (m *Store) ListWorkPackages(ctx context.Context) ([]ds.WorkPackage, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]ds.WorkPackage); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) GetWorkPackage(ctx context.Context, id uint) (*ds.WorkPackage, error) {
	args := m.Called(ctx, id)
	if wp, ok := args.Get(0).(*ds.WorkPackage); ok {
		return wp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) GetWorkPackageByNumber(ctx context.Context, n ds.WBSNumber) (*ds.WorkPackage, error) {
	args := m.Called(ctx, n)
	if wp, ok := args.Get(0).(*ds.WorkPackage); ok {
		return wp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) UpdateWorkPackage(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *Store) SetDependencies(ctx context.Context, workPackageID uint, wbsElementIDs []uint) error {
	args := m.Called(ctx, workPackageID, wbsElementIDs)
	return args.Error(0)
}

func (m *Store) AddBullets(ctx context.Context, bullets []ds.DescriptionBullet) error {
	args := m.Called(ctx, bullets)
	return args.Error(0)
}

func (m *Store) EditBullet(ctx context.Context, id uint, detail string) error {
	args := m.Called(ctx, id, detail)
	return args.Error(0)
}

func (m *Store) DeleteBullets(ctx context.Context, ids []uint, at time.Time) error {
	args := m.Called(ctx, ids, at)
	return args.Error(0)
}

func (m *Store) GetBullet(ctx context.Context, id uint) (*ds.DescriptionBullet, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*ds.DescriptionBullet); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) SetBulletChecked(ctx context.Context, id uint, userID *uint, at *time.Time) error {
	args := m.Called(ctx, id, userID, at)
	return args.Error(0)
}

func (m *Store) ListProjects(ctx context.Context) ([]ds.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]ds.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) GetProject(ctx context.Context, id uint) (*ds.Project, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*ds.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) GetProjectByNumber(ctx context.Context, n ds.WBSNumber) (*ds.Project, error) {
	args := m.Called(ctx, n)
	if p, ok := args.Get(0).(*ds.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) HighestProjectNumber(ctx context.Context, carNumber int) (int, error) {
	args := m.Called(ctx, carNumber)
	return args.Int(0), args.Error(1)
}

func (m *Store) CreateProject(ctx context.Context, project *ds.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *Store) UpdateProject(ctx context.Context, id uint, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

// UserDirectory is a mock for changerequest.UserDirectory.
type UserDirectory struct {
	mock.Mock
}

func (m *UserDirectory) FullName(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// Notifier is a mock for changerequest.Notifier.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) NotifyChangeRequest(ctx context.Context, team ds.Team, message string, crID uint, budgetImpact *decimal.Decimal) error {
	args := m.Called(ctx, team, message, crID, budgetImpact)
	return args.Error(0)
}
