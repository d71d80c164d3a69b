// Package changerequest holds the change request lifecycle: creating the three
// request variants, reviewing them and applying accepted changes.
package changerequest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"finishline/internal/app/changes"
	"finishline/internal/app/ds"
	"finishline/internal/app/metrics"
	"finishline/internal/app/repository"
	"finishline/internal/app/role"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const notifyTimeout = 10 * time.Second

type UserDirectory interface {
	FullName(ctx context.Context, userID uint) (string, error)
}

type Notifier interface {
	NotifyChangeRequest(ctx context.Context, team ds.Team, message string, crID uint, budgetImpact *decimal.Decimal) error
}

type Service struct {
	store    Store
	users    UserDirectory
	notifier Notifier
	now      func() time.Time

	wg sync.WaitGroup
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store Store, users UserDirectory, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		store:    store,
		users:    users,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Now() time.Time {
	return s.now()
}

// Wait blocks until every pending notification has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

type ActivationInput struct {
	SubmitterID      uint
	WBSNum           ds.WBSNumber
	ProjectLeadID    uint
	ProjectManagerID uint
	StartDate        time.Time
	ConfirmDetails   bool
}

type StageGateInput struct {
	SubmitterID    uint
	WBSNum         ds.WBSNumber
	LeftoverBudget decimal.Decimal
	ConfirmDone    bool
}

type Why struct {
	Type    string
	Explain string
}

type StandardInput struct {
	SubmitterID    uint
	WBSNum         ds.WBSNumber
	Type           ds.CRType
	What           string
	Why            []Why
	ScopeImpact    string
	TimelineImpact int
	BudgetImpact   decimal.Decimal
}

type ReviewInput struct {
	ReviewerID uint
	CRID       uint
	Accepted   bool
	Notes      string
	PSID       *uint
}

type ProposedSolutionInput struct {
	SubmitterID    uint
	CRID           uint
	Description    string
	ScopeImpact    string
	TimelineImpact int
	BudgetImpact   decimal.Decimal
}

// authorize loads the user and checks they hold at least the required role.
func (s *Service) authorize(ctx context.Context, userID uint, required role.Role) (*ds.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("User with id #%d not found", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	if !role.HasPrivilege(user.Role, required) {
		return nil, forbidden()
	}
	return user, nil
}

func (s *Service) requireUser(ctx context.Context, userID uint) error {
	_, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("User with id #%d not found", userID)
	}
	if err != nil {
		return fmt.Errorf("get user %d: %w", userID, err)
	}
	return nil
}

func (s *Service) wbsElement(ctx context.Context, n ds.WBSNumber) (*ds.WBSElement, error) {
	elem, err := s.store.GetWBSElementByNumber(ctx, n)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("wbs number %s not found", n)
	}
	if err != nil {
		return nil, fmt.Errorf("get wbs element %s: %w", n, err)
	}
	return elem, nil
}

func (s *Service) changeRequest(ctx context.Context, id uint) (*ds.ChangeRequest, error) {
	cr, err := s.store.GetChangeRequest(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("change request with id #%d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get change request %d: %w", id, err)
	}
	return cr, nil
}

func (s *Service) create(ctx context.Context, cr *ds.ChangeRequest) error {
	err := s.store.WithTransaction(ctx, func(tx Store) error {
		return tx.CreateChangeRequest(ctx, cr)
	})
	if err != nil {
		return fmt.Errorf("create %s change request: %w", cr.Type, err)
	}
	metrics.ChangeRequestCreated(string(cr.Type))
	log.WithFields(log.Fields{
		"cr_id":        cr.CRID,
		"type":         cr.Type,
		"submitter_id": cr.SubmitterID,
	}).Info("change request created")
	return nil
}

// CreateActivation submits a request to activate a WBS element. The proposed
// lead and manager must be existing users.
func (s *Service) CreateActivation(ctx context.Context, in ActivationInput) (uint, error) {
	user, err := s.authorize(ctx, in.SubmitterID, role.Member)
	if err != nil {
		return 0, err
	}
	elem, err := s.wbsElement(ctx, in.WBSNum)
	if err != nil {
		return 0, err
	}
	for _, id := range []uint{in.ProjectLeadID, in.ProjectManagerID} {
		if err := s.requireUser(ctx, id); err != nil {
			return 0, err
		}
	}

	cr := &ds.ChangeRequest{
		SubmitterID:   user.UserID,
		WBSElementID:  elem.WBSElementID,
		Type:          ds.CRTypeActivation,
		DateSubmitted: s.now(),
		ActivationCR: &ds.ActivationCR{
			ProjectLeadID:    in.ProjectLeadID,
			ProjectManagerID: in.ProjectManagerID,
			StartDate:        in.StartDate,
			ConfirmDetails:   in.ConfirmDetails,
		},
	}
	if err := s.create(ctx, cr); err != nil {
		return 0, err
	}

	s.notifyAsync(ctx, cr.CRID, elem.WBSElementID, nil, func(project *ds.Project) string {
		return fmt.Sprintf("%s wants to activate %s in %s", user.FullName(), elem.Name, project.WBSElement.Name)
	})
	return cr.CRID, nil
}

// CreateStageGate submits a request to close out a WBS element.
func (s *Service) CreateStageGate(ctx context.Context, in StageGateInput) (uint, error) {
	user, err := s.authorize(ctx, in.SubmitterID, role.Member)
	if err != nil {
		return 0, err
	}
	elem, err := s.wbsElement(ctx, in.WBSNum)
	if err != nil {
		return 0, err
	}

	cr := &ds.ChangeRequest{
		SubmitterID:   user.UserID,
		WBSElementID:  elem.WBSElementID,
		Type:          ds.CRTypeStageGate,
		DateSubmitted: s.now(),
		StageGateCR: &ds.StageGateCR{
			LeftoverBudget: in.LeftoverBudget,
			ConfirmDone:    in.ConfirmDone,
		},
	}
	if err := s.create(ctx, cr); err != nil {
		return 0, err
	}

	s.notifyAsync(ctx, cr.CRID, elem.WBSElementID, nil, func(project *ds.Project) string {
		return fmt.Sprintf("%s wants to stage gate %s in %s", user.FullName(), elem.Name, project.WBSElement.Name)
	})
	return cr.CRID, nil
}

// CreateStandard submits a scope change with the reasons for it. The
// project's team is notified once it is stored.
func (s *Service) CreateStandard(ctx context.Context, in StandardInput) (uint, error) {
	if !in.Type.IsStandard() {
		return 0, validationError("type %q is not a standard change request type", in.Type)
	}
	user, err := s.authorize(ctx, in.SubmitterID, role.Member)
	if err != nil {
		return 0, err
	}
	elem, err := s.wbsElement(ctx, in.WBSNum)
	if err != nil {
		return 0, err
	}

	whys := make([]ds.ScopeCRWhy, 0, len(in.Why))
	for _, w := range in.Why {
		whys = append(whys, ds.ScopeCRWhy{Type: w.Type, Explain: w.Explain})
	}

	cr := &ds.ChangeRequest{
		SubmitterID:   user.UserID,
		WBSElementID:  elem.WBSElementID,
		Type:          in.Type,
		DateSubmitted: s.now(),
		ScopeCR: &ds.ScopeCR{
			What:           in.What,
			ScopeImpact:    in.ScopeImpact,
			TimelineImpact: in.TimelineImpact,
			BudgetImpact:   in.BudgetImpact,
			Why:            whys,
		},
	}
	if err := s.create(ctx, cr); err != nil {
		return 0, err
	}

	budget := in.BudgetImpact
	s.notifyAsync(ctx, cr.CRID, elem.WBSElementID, &budget, func(project *ds.Project) string {
		return fmt.Sprintf("%s CR submitted by %s for the %s project", in.Type, user.FullName(), project.WBSElement.Name)
	})
	return cr.CRID, nil
}

// notifyAsync tells the team owning the element's project about a new request.
// It never fails the caller: errors are logged and counted.
func (s *Service) notifyAsync(ctx context.Context, crID, wbsElementID uint, budget *decimal.Decimal, message func(*ds.Project) string) {
	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()

		entry := log.WithField("cr_id", crID)

		project, err := s.store.GetEnclosingProject(ctx, wbsElementID)
		if errors.Is(err, repository.ErrNotFound) {
			return
		}
		if err != nil {
			entry.WithError(err).Warn("change request notification: project lookup failed")
			metrics.NotificationFailed()
			return
		}
		if project.Team == nil {
			return
		}

		if err := s.notifier.NotifyChangeRequest(ctx, *project.Team, message(project), crID, budget); err != nil {
			entry.WithError(err).Warn("change request notification failed")
			metrics.NotificationFailed()
		}
	}()
}

// Review decides a pending change request and, when accepted, applies its effects
// to the WBS element in the same transaction.
func (s *Service) Review(ctx context.Context, in ReviewInput) error {
	reviewer, err := s.authorize(ctx, in.ReviewerID, role.Leadership)
	if err != nil {
		return err
	}
	cr, err := s.changeRequest(ctx, in.CRID)
	if err != nil {
		return err
	}
	if !cr.IsPending() {
		return stateConflict("This change request is already reviewed!")
	}
	if reviewer.UserID == cr.SubmitterID {
		return forbidden()
	}

	var psID uint
	if cr.ScopeCR != nil && in.Accepted {
		if in.PSID == nil {
			return stateConflict("No proposed solution selected for scope change request")
		}
		ps, err := s.store.GetProposedSolution(ctx, *in.PSID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("get proposed solution %d: %w", *in.PSID, err)
		}
		if ps == nil || ps.ScopeCRID != cr.ScopeCR.ScopeCRID {
			return stateConflict("Proposed solution with id #%d not found for change request #%d", *in.PSID, cr.CRID)
		}
		psID = ps.ProposedSolutionID
	}

	now := s.now()
	err = s.store.WithTransaction(ctx, func(tx Store) error {
		if psID != 0 {
			if err := tx.ApproveProposedSolution(ctx, psID); err != nil {
				return fmt.Errorf("approve proposed solution %d: %w", psID, err)
			}
		}

		err := tx.ReviewChangeRequest(ctx, ds.ChangeRequestReview{
			CRID:       cr.CRID,
			ReviewerID: reviewer.UserID,
			Accepted:   in.Accepted,
			Notes:      in.Notes,
			ReviewedAt: now,
		})
		if errors.Is(err, repository.ErrConflict) {
			return stateConflict("This change request is already reviewed!")
		}
		if err != nil {
			return fmt.Errorf("review change request %d: %w", cr.CRID, err)
		}

		if !in.Accepted {
			return nil
		}
		switch cr.Type {
		case ds.CRTypeStageGate:
			return s.applyStageGate(ctx, tx, cr, reviewer.UserID, now)
		case ds.CRTypeActivation:
			return s.applyActivation(ctx, tx, cr, reviewer.UserID, now)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.ChangeRequestReviewed(in.Accepted)
	log.WithFields(log.Fields{
		"cr_id":       cr.CRID,
		"reviewer_id": reviewer.UserID,
		"accepted":    in.Accepted,
	}).Info("change request reviewed")
	return nil
}

// applyStageGate completes the element. Only fields not already at their
// target value produce a change.
func (s *Service) applyStageGate(ctx context.Context, tx Store, cr *ds.ChangeRequest, implementerID uint, now time.Time) error {
	elem, err := tx.GetWBSElement(ctx, cr.WBSElementID)
	if err != nil {
		return fmt.Errorf("get wbs element %d: %w", cr.WBSElementID, err)
	}

	var details []string
	if d, ok := changes.Scalar("status", &elem.Status, ds.StatusComplete); ok {
		details = append(details, d)
		if err := tx.UpdateWBSElement(ctx, elem.WBSElementID, map[string]interface{}{"status": ds.StatusComplete}); err != nil {
			return fmt.Errorf("complete wbs element %d: %w", elem.WBSElementID, err)
		}
	}
	if wp := elem.WorkPackage; wp != nil {
		if d, ok := changes.Scalar("progress", &wp.Progress, 100); ok {
			details = append(details, d)
			if err := tx.UpdateWorkPackage(ctx, wp.WorkPackageID, map[string]interface{}{"progress": 100}); err != nil {
				return fmt.Errorf("complete work package %d: %w", wp.WorkPackageID, err)
			}
		}
	}

	return tx.CreateChanges(ctx, changeRows(cr.CRID, implementerID, elem.WBSElementID, details, now))
}

// applyActivation copies lead, manager and start date from the request and
// always activates the element.
func (s *Service) applyActivation(ctx context.Context, tx Store, cr *ds.ChangeRequest, implementerID uint, now time.Time) error {
	act := cr.ActivationCR
	if act == nil {
		return fmt.Errorf("activation change request %d has no activation details", cr.CRID)
	}
	elem, err := tx.GetWBSElement(ctx, cr.WBSElementID)
	if err != nil {
		return fmt.Errorf("get wbs element %d: %w", cr.WBSElementID, err)
	}

	var details []string
	fields := map[string]interface{}{}

	lead, err := s.userChange(ctx, "project lead", elem.ProjectLeadID, act.ProjectLeadID)
	if err != nil {
		return err
	}
	if lead != "" {
		details = append(details, lead)
		fields["project_lead_id"] = act.ProjectLeadID
	}

	manager, err := s.userChange(ctx, "project manager", elem.ProjectManagerID, act.ProjectManagerID)
	if err != nil {
		return err
	}
	if manager != "" {
		details = append(details, manager)
		fields["project_manager_id"] = act.ProjectManagerID
	}

	if wp := elem.WorkPackage; wp != nil {
		if d, ok := changes.Date("start date", wp.StartDate, act.StartDate); ok {
			details = append(details, d)
			if err := tx.UpdateWorkPackage(ctx, wp.WorkPackageID, map[string]interface{}{"start_date": act.StartDate}); err != nil {
				return fmt.Errorf("update work package %d: %w", wp.WorkPackageID, err)
			}
		}
	}

	details = append(details, changes.ChangeDetail("status", elem.Status, ds.StatusActive))
	fields["status"] = ds.StatusActive

	if err := tx.UpdateWBSElement(ctx, elem.WBSElementID, fields); err != nil {
		return fmt.Errorf("activate wbs element %d: %w", elem.WBSElementID, err)
	}
	return tx.CreateChanges(ctx, changeRows(cr.CRID, implementerID, elem.WBSElementID, details, now))
}

// userChange describes replacing the user in a lead/manager slot by display name.
// It returns "" when the slot already holds newID.
func (s *Service) userChange(ctx context.Context, field string, oldID *uint, newID uint) (string, error) {
	if oldID != nil && *oldID == newID {
		return "", nil
	}
	newName, err := s.users.FullName(ctx, newID)
	if err != nil {
		return "", fmt.Errorf("resolve %s %d: %w", field, newID, err)
	}
	if oldID == nil {
		return changes.AddedDetail(field, newName), nil
	}
	oldName, err := s.users.FullName(ctx, *oldID)
	if err != nil {
		return "", fmt.Errorf("resolve %s %d: %w", field, *oldID, err)
	}
	return changes.ChangeDetail(field, oldName, newName), nil
}

func changeRows(crID, implementerID, wbsElementID uint, details []string, now time.Time) []ds.Change {
	rows := make([]ds.Change, 0, len(details))
	for _, d := range details {
		rows = append(rows, ds.Change{
			ChangeRequestID: crID,
			ImplementerID:   implementerID,
			WBSElementID:    wbsElementID,
			Detail:          d,
			DateImplemented: now,
		})
	}
	return rows
}

// AddProposedSolution attaches a solution to a pending scope change request.
func (s *Service) AddProposedSolution(ctx context.Context, in ProposedSolutionInput) (uint, error) {
	user, err := s.authorize(ctx, in.SubmitterID, role.Member)
	if err != nil {
		return 0, err
	}
	cr, err := s.changeRequest(ctx, in.CRID)
	if err != nil {
		return 0, err
	}
	if !cr.IsPending() {
		return 0, stateConflict("cannot create proposed solutions on a reviewed change request!")
	}
	if cr.ScopeCR == nil {
		return 0, notFound("scope change request with change request id #%d not found", in.CRID)
	}

	ps := &ds.ProposedSolution{
		ScopeCRID:      cr.ScopeCR.ScopeCRID,
		Description:    in.Description,
		ScopeImpact:    in.ScopeImpact,
		TimelineImpact: in.TimelineImpact,
		BudgetImpact:   in.BudgetImpact,
		CreatedByID:    user.UserID,
		DateCreated:    s.now(),
	}
	err = s.store.WithTransaction(ctx, func(tx Store) error {
		return tx.CreateProposedSolution(ctx, ps)
	})
	if err != nil {
		return 0, fmt.Errorf("create proposed solution: %w", err)
	}
	return ps.ProposedSolutionID, nil
}

// ListChangeRequests returns every change request, pending or decided.
func (s *Service) ListChangeRequests(ctx context.Context) ([]ds.ChangeRequest, error) {
	crs, err := s.store.ListChangeRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("list change requests: %w", err)
	}
	return crs, nil
}

func (s *Service) GetChangeRequest(ctx context.Context, id uint) (*ds.ChangeRequest, error) {
	return s.changeRequest(ctx, id)
}
