// Package converter maps persisted records to their API shapes.
package converter

import (
	"math"
	"sort"
	"time"

	"finishline/internal/app/ds"
	"finishline/internal/app/dto"
)

const (
	TimelineAhead      = "Ahead"
	TimelineOnTrack    = "On Track"
	TimelineBehind     = "Behind"
	TimelineVeryBehind = "Very Behind"
)

var statusNames = map[ds.WBSStatus]string{
	ds.StatusInactive: "Inactive",
	ds.StatusActive:   "Active",
	ds.StatusComplete: "Complete",
}

// Status is the display name of a WBS status, e.g. "Active".
func Status(s ds.WBSStatus) string {
	return statusNames[s]
}

func WBSNumOf(e ds.WBSElement) dto.WBSNum {
	return WBSNum(e.Number())
}

func WBSNum(n ds.WBSNumber) dto.WBSNum {
	return dto.WBSNum{
		CarNumber:         n.CarNumber,
		ProjectNumber:     n.ProjectNumber,
		WorkPackageNumber: n.WorkPackageNumber,
	}
}

// WBSNumber is the inverse of WBSNum.
func WBSNumber(n dto.WBSNum) ds.WBSNumber {
	return ds.WBSNumber{
		CarNumber:         n.CarNumber,
		ProjectNumber:     n.ProjectNumber,
		WorkPackageNumber: n.WorkPackageNumber,
	}
}

// User drops everything but the public profile fields.
func User(u ds.User) dto.User {
	return dto.User{
		UserID:    u.UserID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
	}
}

func userPtr(u *ds.User) *dto.User {
	if u == nil {
		return nil
	}
	out := User(*u)
	return &out
}

func DescriptionBullet(b ds.DescriptionBullet) dto.DescriptionBullet {
	return dto.DescriptionBullet{
		ID:              b.DescriptionID,
		Detail:          b.Detail,
		DateAdded:       b.DateAdded,
		DateDeleted:     b.DateDeleted,
		UserCheckedID:   b.UserCheckedID,
		DateTimeChecked: b.DateTimeChecked,
	}
}

func Change(c ds.Change, wbsNum dto.WBSNum) dto.ImplementedChange {
	return dto.ImplementedChange{
		ChangeID:        c.ChangeID,
		ChangeRequestID: c.ChangeRequestID,
		WBSNum:          wbsNum,
		Implementer:     User(c.Implementer),
		Detail:          c.Detail,
		DateImplemented: c.DateImplemented,
	}
}

func changes(list []ds.Change, wbsNum dto.WBSNum) []dto.ImplementedChange {
	out := make([]dto.ImplementedChange, 0, len(list))
	for _, c := range list {
		out = append(out, Change(c, wbsNum))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateImplemented.Before(out[j].DateImplemented)
	})
	return out
}

// ChangeRequest fills the common fields and then the ones of cr's type.
func ChangeRequest(cr ds.ChangeRequest) dto.ChangeRequest {
	wbsNum := WBSNumOf(cr.WBSElement)
	out := dto.ChangeRequest{
		CRID:               cr.CRID,
		WBSNum:             wbsNum,
		WBSName:            cr.WBSElement.Name,
		Submitter:          User(cr.Submitter),
		DateSubmitted:      cr.DateSubmitted,
		Type:               string(cr.Type),
		Reviewer:           userPtr(cr.Reviewer),
		DateReviewed:       cr.DateReviewed,
		Accepted:           cr.Accepted,
		ReviewNotes:        cr.ReviewNotes,
		ImplementedChanges: changes(cr.Changes, wbsNum),
	}

	if a := cr.ActivationCR; a != nil {
		lead, manager := User(a.ProjectLead), User(a.ProjectManager)
		start, confirm := a.StartDate, a.ConfirmDetails
		out.ProjectLead = &lead
		out.ProjectManager = &manager
		out.StartDate = &start
		out.ConfirmDetails = &confirm
	}

	if sg := cr.StageGateCR; sg != nil {
		budget, done := sg.LeftoverBudget, sg.ConfirmDone
		out.LeftoverBudget = &budget
		out.ConfirmDone = &done
	}

	if s := cr.ScopeCR; s != nil {
		budget, timeline := s.BudgetImpact, s.TimelineImpact
		out.What = s.What
		out.ScopeImpact = s.ScopeImpact
		out.BudgetImpact = &budget
		out.TimelineImpact = &timeline
		out.Why = make([]dto.ScopeWhy, 0, len(s.Why))
		for _, w := range s.Why {
			out.Why = append(out.Why, dto.ScopeWhy{Type: w.Type, Explain: w.Explain})
		}
		out.ProposedSolutions = make([]dto.ProposedSolution, 0, len(s.ProposedSolutions))
		for _, ps := range s.ProposedSolutions {
			out.ProposedSolutions = append(out.ProposedSolutions, ProposedSolution(ps))
		}
	}

	return out
}

func ProposedSolution(ps ds.ProposedSolution) dto.ProposedSolution {
	return dto.ProposedSolution{
		ID:             ps.ProposedSolutionID,
		Description:    ps.Description,
		ScopeImpact:    ps.ScopeImpact,
		TimelineImpact: ps.TimelineImpact,
		BudgetImpact:   ps.BudgetImpact,
		Approved:       ps.Approved,
		CreatedBy:      User(ps.CreatedBy),
		DateCreated:    ps.DateCreated,
	}
}

// WorkPackage builds the API view. now is used for the expected progress.
func WorkPackage(wp ds.WorkPackage, now time.Time) dto.WorkPackage {
	wbsNum := WBSNumOf(wp.WBSElement)
	progress := WorkPackageProgress(wp.ExpectedActivities, wp.Deliverables)
	expected := ExpectedProgress(wp.StartDate, wp.Duration, wp.WBSElement.Status, now)

	deps := make([]dto.WBSNum, 0, len(wp.Dependencies))
	for _, d := range wp.Dependencies {
		deps = append(deps, WBSNumOf(d))
	}

	return dto.WorkPackage{
		ID:                 wp.WorkPackageID,
		WBSNum:             wbsNum,
		DateCreated:        wp.WBSElement.DateCreated,
		Name:               wp.WBSElement.Name,
		Status:             Status(wp.WBSElement.Status),
		ProjectLead:        userPtr(wp.WBSElement.ProjectLead),
		ProjectManager:     userPtr(wp.WBSElement.ProjectManager),
		Changes:            changes(wp.WBSElement.Changes, wbsNum),
		OrderInProject:     wp.OrderInProject,
		Progress:           progress,
		StartDate:          wp.StartDate,
		EndDate:            EndDate(wp.StartDate, wp.Duration),
		Duration:           wp.Duration,
		ExpectedProgress:   expected,
		TimelineStatus:     TimelineStatus(progress, expected),
		Dependencies:       deps,
		ExpectedActivities: bullets(wp.ExpectedActivities),
		Deliverables:       bullets(wp.Deliverables),
		ProjectName:        wp.Project.WBSElement.Name,
	}
}

// Project builds the API view with its work packages. The project's duration
// is the sum of theirs.
func Project(p ds.Project, now time.Time) dto.Project {
	wbsNum := WBSNumOf(p.WBSElement)

	wps := make([]dto.WorkPackage, 0, len(p.WorkPackages))
	duration := 0
	for _, wp := range p.WorkPackages {
		view := WorkPackage(wp, now)
		view.ProjectName = p.WBSElement.Name
		wps = append(wps, view)
		duration += wp.Duration
	}

	rules := []string(p.Rules)
	if rules == nil {
		rules = []string{}
	}

	out := dto.Project{
		ID:                    p.ProjectID,
		WBSNum:                wbsNum,
		DateCreated:           p.WBSElement.DateCreated,
		Name:                  p.WBSElement.Name,
		Status:                Status(p.WBSElement.Status),
		ProjectLead:           userPtr(p.WBSElement.ProjectLead),
		ProjectManager:        userPtr(p.WBSElement.ProjectManager),
		Changes:               changes(p.WBSElement.Changes, wbsNum),
		Budget:                p.Budget,
		Summary:               p.Summary,
		Rules:                 rules,
		Duration:              duration,
		Goals:                 bullets(p.Goals),
		Features:              bullets(p.Features),
		OtherConstraints:      bullets(p.OtherConstraints),
		GoogleDriveFolderLink: p.GoogleDriveFolderLink,
		SlideDeckLink:         p.SlideDeckLink,
		BOMLink:               p.BOMLink,
		TaskListLink:          p.TaskListLink,
		WorkPackages:          wps,
	}
	if p.Team != nil {
		out.TeamName = p.Team.TeamName
	}
	return out
}

func bullets(list []ds.DescriptionBullet) []dto.DescriptionBullet {
	out := make([]dto.DescriptionBullet, 0, len(list))
	for _, b := range list {
		out = append(out, DescriptionBullet(b))
	}
	return out
}

// WorkPackageProgress is the floored percentage of checked bullets.
func WorkPackageProgress(expectedActivities, deliverables []ds.DescriptionBullet) int {
	total := len(expectedActivities) + len(deliverables)
	if total == 0 {
		return 0
	}
	checked := 0
	for _, list := range [][]ds.DescriptionBullet{expectedActivities, deliverables} {
		for _, b := range list {
			if b.DateTimeChecked != nil {
				checked++
			}
		}
	}
	return checked * 100 / total
}

func EndDate(start time.Time, weeks int) time.Time {
	return start.AddDate(0, 0, weeks*7)
}

// ExpectedProgress is how far through its duration a work package should be at now.
func ExpectedProgress(start time.Time, weeks int, status ds.WBSStatus, now time.Time) int {
	switch status {
	case ds.StatusInactive:
		return 0
	case ds.StatusComplete:
		return 100
	}
	if weeks <= 0 {
		if now.Before(start) {
			return 0
		}
		return 100
	}
	total := EndDate(start, weeks).Sub(start)
	elapsed := now.Sub(start)
	pct := math.Floor(float64(elapsed) / float64(total) * 100)
	return int(math.Max(0, math.Min(100, pct)))
}

func TimelineStatus(progress, expected int) string {
	diff := progress - expected
	switch {
	case diff > 10:
		return TimelineAhead
	case diff >= -10:
		return TimelineOnTrack
	case diff >= -30:
		return TimelineBehind
	default:
		return TimelineVeryBehind
	}
}
