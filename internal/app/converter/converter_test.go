package converter

import (
	"testing"
	"time"

	"finishline/internal/app/ds"
	"finishline/internal/app/role"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkedBullet(id uint, checked bool) ds.DescriptionBullet {
	b := ds.DescriptionBullet{DescriptionID: id, Detail: "item"}
	if checked {
		at := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		b.DateTimeChecked = &at
	}
	return b
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "Inactive", Status(ds.StatusInactive))
	assert.Equal(t, "Active", Status(ds.StatusActive))
	assert.Equal(t, "Complete", Status(ds.StatusComplete))
}

func TestWorkPackageProgress(t *testing.T) {
	tests := []struct {
		name         string
		activities   []ds.DescriptionBullet
		deliverables []ds.DescriptionBullet
		want         int
	}{
		{name: "no bullets", want: 0},
		{name: "all checked", activities: []ds.DescriptionBullet{checkedBullet(1, true)}, deliverables: []ds.DescriptionBullet{checkedBullet(2, true)}, want: 100},
		{name: "one of three floors", activities: []ds.DescriptionBullet{checkedBullet(1, true), checkedBullet(2, false)}, deliverables: []ds.DescriptionBullet{checkedBullet(3, false)}, want: 33},
		{name: "two of three floors", activities: []ds.DescriptionBullet{checkedBullet(1, true), checkedBullet(2, true)}, deliverables: []ds.DescriptionBullet{checkedBullet(3, false)}, want: 66},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WorkPackageProgress(tt.activities, tt.deliverables))
		})
	}
}

func TestExpectedProgress(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, ExpectedProgress(start, 4, ds.StatusInactive, start.AddDate(0, 0, 14)))
	assert.Equal(t, 100, ExpectedProgress(start, 4, ds.StatusComplete, start))
	assert.Equal(t, 50, ExpectedProgress(start, 4, ds.StatusActive, start.AddDate(0, 0, 14)))
	assert.Equal(t, 0, ExpectedProgress(start, 4, ds.StatusActive, start.AddDate(0, 0, -3)))
	assert.Equal(t, 100, ExpectedProgress(start, 4, ds.StatusActive, start.AddDate(0, 3, 0)))
}

func TestTimelineStatus(t *testing.T) {
	assert.Equal(t, TimelineAhead, TimelineStatus(80, 50))
	assert.Equal(t, TimelineOnTrack, TimelineStatus(50, 50))
	assert.Equal(t, TimelineOnTrack, TimelineStatus(40, 50))
	assert.Equal(t, TimelineBehind, TimelineStatus(30, 50))
	assert.Equal(t, TimelineVeryBehind, TimelineStatus(0, 50))
}

func TestEndDate(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 1, 23, 0, 0, 0, 0, time.UTC), EndDate(start, 3))
}

func TestWorkPackage(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	lead := ds.User{UserID: 5, FirstName: "Ada", LastName: "Lovelace", Role: role.Member}
	wp := ds.WorkPackage{
		WorkPackageID:  11,
		OrderInProject: 2,
		StartDate:      start,
		Duration:       4,
		WBSElement: ds.WBSElement{
			CarNumber: 1, ProjectNumber: 2, WorkPackageNumber: 3,
			Name:        "Harness",
			Status:      ds.StatusActive,
			ProjectLead: &lead,
			Changes: []ds.Change{
				{ChangeID: 2, Detail: "second", DateImplemented: start.AddDate(0, 0, 2)},
				{ChangeID: 1, Detail: "first", DateImplemented: start.AddDate(0, 0, 1)},
			},
		},
		Project:            ds.Project{WBSElement: ds.WBSElement{Name: "Electrical"}},
		ExpectedActivities: []ds.DescriptionBullet{checkedBullet(1, true)},
		Deliverables:       []ds.DescriptionBullet{checkedBullet(2, false)},
		Dependencies:       []ds.WBSElement{{CarNumber: 1, ProjectNumber: 1, WorkPackageNumber: 1}},
	}

	got := WorkPackage(wp, start.AddDate(0, 0, 14))

	assert.Equal(t, uint(11), got.ID)
	assert.Equal(t, 3, got.WBSNum.WorkPackageNumber)
	assert.Equal(t, "Active", got.Status)
	assert.Equal(t, 50, got.Progress)
	assert.Equal(t, 50, got.ExpectedProgress)
	assert.Equal(t, TimelineOnTrack, got.TimelineStatus)
	assert.Equal(t, "Electrical", got.ProjectName)
	assert.Equal(t, start.AddDate(0, 0, 28), got.EndDate)
	require.NotNil(t, got.ProjectLead)
	assert.Equal(t, uint(5), got.ProjectLead.UserID)
	assert.Nil(t, got.ProjectManager)
	require.Len(t, got.Changes, 2)
	assert.Equal(t, "first", got.Changes[0].Detail)
	require.Len(t, got.Dependencies, 1)
	assert.Equal(t, 1, got.Dependencies[0].WorkPackageNumber)
}

func TestChangeRequestTypeSpecificFields(t *testing.T) {
	accepted := true
	scope := ds.ChangeRequest{
		CRID:       3,
		Type:       ds.CRTypeIssue,
		Accepted:   &accepted,
		WBSElement: ds.WBSElement{CarNumber: 1, ProjectNumber: 2},
		ScopeCR: &ds.ScopeCR{
			What:         "Swap connectors",
			BudgetImpact: decimal.NewFromInt(40),
			Why:          []ds.ScopeCRWhy{{Type: "DESIGN", Explain: "pins too small"}},
			ProposedSolutions: []ds.ProposedSolution{
				{ProposedSolutionID: 9, Description: "Use Deutsch", Approved: true},
			},
		},
	}

	got := ChangeRequest(scope)

	assert.Equal(t, uint(3), got.CRID)
	assert.Equal(t, "ISSUE", got.Type)
	assert.Equal(t, "Swap connectors", got.What)
	require.NotNil(t, got.BudgetImpact)
	assert.True(t, got.BudgetImpact.Equal(decimal.NewFromInt(40)))
	require.Len(t, got.ProposedSolutions, 1)
	assert.True(t, got.ProposedSolutions[0].Approved)
	assert.Nil(t, got.LeftoverBudget)
	assert.Nil(t, got.ProjectLead)

	gate := ChangeRequest(ds.ChangeRequest{
		Type:        ds.CRTypeStageGate,
		StageGateCR: &ds.StageGateCR{LeftoverBudget: decimal.NewFromInt(12), ConfirmDone: true},
	})
	require.NotNil(t, gate.ConfirmDone)
	assert.True(t, *gate.ConfirmDone)
	assert.Nil(t, gate.BudgetImpact)
	assert.Empty(t, gate.What)
}

func TestProject(t *testing.T) {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	p := ds.Project{
		ProjectID: 4,
		Budget:    250,
		Summary:   "Brakes",
		Team:      &ds.Team{TeamName: "Mechanical"},
		WBSElement: ds.WBSElement{
			CarNumber: 1, ProjectNumber: 3,
			Name:   "Impulse",
			Status: ds.StatusActive,
		},
		Goals:   []ds.DescriptionBullet{checkedBullet(1, true)},
		BOMLink: "https://bom.example.com",
		WorkPackages: []ds.WorkPackage{
			{WorkPackageID: 1, StartDate: start, Duration: 3, WBSElement: ds.WBSElement{CarNumber: 1, ProjectNumber: 3, WorkPackageNumber: 1}},
			{WorkPackageID: 2, StartDate: start, Duration: 5, WBSElement: ds.WBSElement{CarNumber: 1, ProjectNumber: 3, WorkPackageNumber: 2}},
		},
	}

	got := Project(p, start)

	assert.Equal(t, "1.3.0", WBSNumber(got.WBSNum).String())
	assert.Equal(t, "Active", got.Status)
	assert.Equal(t, "Mechanical", got.TeamName)
	assert.Equal(t, 8, got.Duration)
	assert.Equal(t, []string{}, got.Rules)
	require.Len(t, got.Goals, 1)
	assert.NotNil(t, got.Goals[0].DateTimeChecked)
	assert.Empty(t, got.Features)
	require.Len(t, got.WorkPackages, 2)
	assert.Equal(t, "Impulse", got.WorkPackages[1].ProjectName)
	assert.Equal(t, "https://bom.example.com", got.BOMLink)
}
