package changerequest

import (
	"context"
	"errors"
	"fmt"

	"finishline/internal/app/changes"
	"finishline/internal/app/ds"
	"finishline/internal/app/repository"
	"finishline/internal/app/role"

	log "github.com/sirupsen/logrus"
)

const projectCreatedDetail = "New Project Created"

// ProjectCreate opens a new project under a car, justified by an accepted
// change request.
type ProjectCreate struct {
	UserID    uint
	CRID      uint
	Name      string
	CarNumber int
	Summary   string
}

// ProjectEdit is the full desired state of a project. Bullets with a
// negative id are new.
type ProjectEdit struct {
	UserID                uint
	ProjectID             uint
	CRID                  uint
	Name                  string
	Budget                int
	Summary               string
	Rules                 []string
	Goals                 []changes.Bullet
	Features              []changes.Bullet
	OtherConstraints      []changes.Bullet
	Status                ds.WBSStatus
	ProjectLeadID         *uint
	ProjectManagerID      *uint
	GoogleDriveFolderLink string
	SlideDeckLink         string
	BOMLink               string
	TaskListLink          string
}

func (s *Service) ListProjects(ctx context.Context) ([]ds.Project, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// GetProject looks a project up by its wbs number, which must end in 0.
func (s *Service) GetProject(ctx context.Context, n ds.WBSNumber) (*ds.Project, error) {
	if !n.IsProject() {
		return nil, notFound("%s is not a valid project WBS #!", n)
	}
	project, err := s.store.GetProjectByNumber(ctx, n)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("project %s not found!", n)
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", n, err)
	}
	return project, nil
}

// acceptedChangeRequest loads a change request that is allowed to justify an
// edit: it must exist and have been accepted.
func (s *Service) acceptedChangeRequest(ctx context.Context, id uint) (*ds.ChangeRequest, error) {
	cr, err := s.changeRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if cr.Accepted == nil || !*cr.Accepted {
		return nil, stateConflict("change request #%d is not accepted", cr.CRID)
	}
	return cr, nil
}

// CreateProject takes the next free project number of the car and records
// the creation against the change request.
func (s *Service) CreateProject(ctx context.Context, in ProjectCreate) (ds.WBSNumber, error) {
	user, err := s.authorize(ctx, in.UserID, role.Member)
	if err != nil {
		return ds.WBSNumber{}, err
	}
	cr, err := s.acceptedChangeRequest(ctx, in.CRID)
	if err != nil {
		return ds.WBSNumber{}, err
	}

	now := s.now()
	var number ds.WBSNumber
	err = s.store.WithTransaction(ctx, func(tx Store) error {
		highest, err := tx.HighestProjectNumber(ctx, in.CarNumber)
		if err != nil {
			return fmt.Errorf("highest project number: %w", err)
		}
		project := &ds.Project{
			Summary: in.Summary,
			Rules:   ds.StringList{},
			WBSElement: ds.WBSElement{
				CarNumber:         in.CarNumber,
				ProjectNumber:     highest + 1,
				WorkPackageNumber: 0,
				Name:              in.Name,
				Status:            ds.StatusInactive,
				DateCreated:       now,
			},
		}
		if err := tx.CreateProject(ctx, project); err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		number = project.WBSElement.Number()
		return tx.CreateChanges(ctx, changeRows(cr.CRID, user.UserID, project.WBSElementID,
			[]string{projectCreatedDetail}, now))
	})
	if err != nil {
		return ds.WBSNumber{}, err
	}

	log.WithFields(log.Fields{
		"wbs_number": number.String(),
		"cr_id":      cr.CRID,
	}).Info("project created")
	return number, nil
}

// EditProject applies an accepted change request to a project, recording one
// change per modified field.
func (s *Service) EditProject(ctx context.Context, in ProjectEdit) error {
	user, err := s.authorize(ctx, in.UserID, role.Member)
	if err != nil {
		return err
	}
	cr, err := s.acceptedChangeRequest(ctx, in.CRID)
	if err != nil {
		return err
	}

	project, err := s.store.GetProject(ctx, in.ProjectID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("project with id #%d not found", in.ProjectID)
	}
	if err != nil {
		return fmt.Errorf("get project %d: %w", in.ProjectID, err)
	}
	elem := project.WBSElement

	var details []string
	elemFields := map[string]interface{}{}
	projectFields := map[string]interface{}{}

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
	if d, ok := changes.Scalar("budget", &project.Budget, in.Budget); ok {
		details = append(details, d)
		projectFields["budget"] = in.Budget
	}
	if d, ok := changes.Scalar("summary", &project.Summary, in.Summary); ok {
		details = append(details, d)
		projectFields["summary"] = in.Summary
	}

	links := []struct {
		field  string
		column string
		old    string
		new    string
	}{
		{"google drive folder link", "google_drive_folder_link", project.GoogleDriveFolderLink, in.GoogleDriveFolderLink},
		{"slide deck link", "slide_deck_link", project.SlideDeckLink, in.SlideDeckLink},
		{"bom link", "bom_link", project.BOMLink, in.BOMLink},
		{"task list link", "task_list_link", project.TaskListLink, in.TaskListLink},
	}
	for _, l := range links {
		if d, ok := linkChange(l.field, l.old, l.new); ok {
			details = append(details, d)
			projectFields[l.column] = l.new
		}
	}

	ruleDetails := changes.Strings("rule", project.Rules, in.Rules)
	if len(ruleDetails) > 0 {
		details = append(details, ruleDetails...)
		projectFields["rules"] = ds.StringList(in.Rules)
	}

	goals := changes.Bullets("goal", bulletsOf(project.Goals), in.Goals)
	features := changes.Bullets("feature", bulletsOf(project.Features), in.Features)
	constraints := changes.Bullets("other constraint", bulletsOf(project.OtherConstraints), in.OtherConstraints)
	details = append(details, goals.Details...)
	details = append(details, features.Details...)
	details = append(details, constraints.Details...)

	if len(details) == 0 {
		return nil
	}

	now := s.now()
	projectID := project.ProjectID
	err = s.store.WithTransaction(ctx, func(tx Store) error {
		if len(elemFields) > 0 {
			if err := tx.UpdateWBSElement(ctx, elem.WBSElementID, elemFields); err != nil {
				return fmt.Errorf("update wbs element %d: %w", elem.WBSElementID, err)
			}
		}
		if len(projectFields) > 0 {
			if err := tx.UpdateProject(ctx, projectID, projectFields); err != nil {
				return fmt.Errorf("update project %d: %w", projectID, err)
			}
		}
		if err := applyBullets(ctx, tx, goals, now, func(b *ds.DescriptionBullet) {
			b.ProjectIDGoals = &projectID
		}); err != nil {
			return err
		}
		if err := applyBullets(ctx, tx, features, now, func(b *ds.DescriptionBullet) {
			b.ProjectIDFeatures = &projectID
		}); err != nil {
			return err
		}
		if err := applyBullets(ctx, tx, constraints, now, func(b *ds.DescriptionBullet) {
			b.ProjectIDOtherConstraints = &projectID
		}); err != nil {
			return err
		}
		return tx.CreateChanges(ctx, changeRows(cr.CRID, user.UserID, elem.WBSElementID, details, now))
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"project_id": projectID,
		"cr_id":      cr.CRID,
		"changes":    len(details),
	}).Info("project edited")
	return nil
}

// linkChange treats an empty old link as never set.
func linkChange(field, oldLink, newLink string) (string, bool) {
	if oldLink == newLink {
		return "", false
	}
	if oldLink == "" {
		return changes.AddedDetail(field, newLink), true
	}
	return changes.ChangeDetail(field, oldLink, newLink), true
}
