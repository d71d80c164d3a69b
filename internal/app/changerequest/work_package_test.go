package changerequest_test

import (
	"context"
	"testing"
	"time"

	"finishline/internal/app/changerequest"
	"finishline/internal/app/changes"
	"finishline/internal/app/ds"
	"finishline/internal/app/repository"
	"finishline/internal/app/role"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func harnessPackage(start time.Time) *ds.WorkPackage {
	return &ds.WorkPackage{
		WorkPackageID: 50,
		WBSElementID:  60,
		StartDate:     start,
		Duration:      4,
		Progress:      20,
		WBSElement: ds.WBSElement{
			WBSElementID: 60,
			Name:         "Harness",
			Status:       ds.StatusActive,
		},
		Dependencies: []ds.WBSElement{{WBSElementID: 61}},
		ExpectedActivities: []ds.DescriptionBullet{
			{DescriptionID: 1, Detail: "a"},
			{DescriptionID: 2, Detail: "b"},
		},
		Deliverables: []ds.DescriptionBullet{
			{DescriptionID: 3, Detail: "c"},
		},
	}
}

func TestEditWorkPackageRecordsEveryChange(t *testing.T) {
	f := newFixture()
	start := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	dep := ds.WBSNumber{CarNumber: 1, ProjectNumber: 1, WorkPackageNumber: 2}

	f.store.On("GetUser", mock.Anything, uint(3)).Return(user(3, role.Member), nil)
	f.store.On("GetChangeRequest", mock.Anything, uint(8)).Return(&ds.ChangeRequest{CRID: 8, Accepted: boolPtr(true)}, nil)
	f.store.On("GetWorkPackage", mock.Anything, uint(50)).Return(harnessPackage(start), nil)
	f.store.On("GetWBSElementByNumber", mock.Anything, dep).Return(&ds.WBSElement{WBSElementID: 62}, nil)
	f.users.On("FullName", mock.Anything, uint(5)).Return("Ada Lovelace", nil)
	f.store.On("WBSNumbers", mock.Anything, []uint{61, 62}).Return(map[uint]string{61: "1.1.1", 62: "1.1.2"}, nil)
	f.store.On("WithTransaction", mock.Anything).Return(nil)
	f.store.On("UpdateWBSElement", mock.Anything, uint(60), map[string]interface{}{
		"name":            "Harness v2",
		"project_lead_id": uint(5),
	}).Return(nil)
	f.store.On("UpdateWorkPackage", mock.Anything, uint(50), map[string]interface{}{"duration": 6}).Return(nil)
	f.store.On("SetDependencies", mock.Anything, uint(50), []uint{62}).Return(nil)
	f.store.On("DeleteBullets", mock.Anything, []uint{3}, fixedNow).Return(nil)
	f.store.On("AddBullets", mock.Anything, mock.MatchedBy(func(b []ds.DescriptionBullet) bool {
		return len(b) == 1 && b[0].Detail == "new" &&
			b[0].WorkPackageIDExpectedActivities != nil && *b[0].WorkPackageIDExpectedActivities == 50 &&
			b[0].WorkPackageIDDeliverables == nil
	})).Return(nil)
	f.store.On("EditBullet", mock.Anything, uint(2), "bb").Return(nil)

	var recorded []ds.Change
	f.store.On("CreateChanges", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		recorded = args.Get(1).([]ds.Change)
	}).Return(nil)

	err := f.svc.EditWorkPackage(context.Background(), changerequest.WorkPackageEdit{
		UserID:        3,
		WorkPackageID: 50,
		CRID:          8,
		Name:          "Harness v2",
		StartDate:     start.Add(6 * time.Hour),
		Duration:      6,
		Dependencies:  []ds.WBSNumber{dep},
		ExpectedActivities: []changes.Bullet{
			{ID: 1, Detail: "a"},
			{ID: 2, Detail: "bb"},
			{ID: -1, Detail: "new"},
		},
		Deliverables:  nil,
		Status:        ds.StatusActive,
		ProjectLeadID: uintPtr(5),
		Progress:      20,
	})

	require.NoError(t, err)
	f.assertExpectations(t)

	details := make([]string, 0, len(recorded))
	for _, c := range recorded {
		assert.Equal(t, uint(8), c.ChangeRequestID)
		assert.Equal(t, uint(3), c.ImplementerID)
		assert.Equal(t, uint(60), c.WBSElementID)
		details = append(details, c.Detail)
	}
	assert.Equal(t, []string{
		`Changed name from "Harness" to "Harness v2"`,
		`Added project lead "Ada Lovelace"`,
		`Changed duration from "4" to "6"`,
		`Removed dependency "1.1.1"`,
		`Added new dependency "1.1.2"`,
		`Changed expected activity from "b" to "bb"`,
		`Added new expected activity "new"`,
		`Removed deliverable "c"`,
	}, details)
}

func TestEditWorkPackageWithoutChangesWritesNothing(t *testing.T) {
	f := newFixture()
	start := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)

	f.store.On("GetUser", mock.Anything, uint(3)).Return(user(3, role.Member), nil)
	f.store.On("GetChangeRequest", mock.Anything, uint(8)).Return(&ds.ChangeRequest{CRID: 8, Accepted: boolPtr(true)}, nil)
	f.store.On("GetWorkPackage", mock.Anything, uint(50)).Return(harnessPackage(start), nil)
	f.store.On("GetWBSElementByNumber", mock.Anything, ds.WBSNumber{CarNumber: 1, ProjectNumber: 1, WorkPackageNumber: 1}).
		Return(&ds.WBSElement{WBSElementID: 61}, nil)

	err := f.svc.EditWorkPackage(context.Background(), changerequest.WorkPackageEdit{
		UserID:             3,
		WorkPackageID:      50,
		CRID:               8,
		Name:               "Harness",
		StartDate:          start,
		Duration:           4,
		Dependencies:       []ds.WBSNumber{{CarNumber: 1, ProjectNumber: 1, WorkPackageNumber: 1}},
		ExpectedActivities: []changes.Bullet{{ID: 1, Detail: "a"}, {ID: 2, Detail: "b"}},
		Deliverables:       []changes.Bullet{{ID: 3, Detail: "c"}},
		Status:             ds.StatusActive,
		Progress:           20,
	})

	require.NoError(t, err)
	f.assertExpectations(t)
	f.store.AssertNotCalled(t, "WithTransaction", mock.Anything)
}

func TestEditWorkPackageRequiresAcceptedRequest(t *testing.T) {
	for name, accepted := range map[string]*bool{"pending": nil, "rejected": boolPtr(false)} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			f.store.On("GetUser", mock.Anything, uint(3)).Return(user(3, role.Member), nil)
			f.store.On("GetChangeRequest", mock.Anything, uint(8)).Return(&ds.ChangeRequest{CRID: 8, Accepted: accepted}, nil)

			err := f.svc.EditWorkPackage(context.Background(), changerequest.WorkPackageEdit{UserID: 3, CRID: 8, WorkPackageID: 50})

			requireKind(t, err, changerequest.KindStateConflict)
			f.assertExpectations(t)
		})
	}
}

func TestEditWorkPackageUnknownDependency(t *testing.T) {
	f := newFixture()
	dep := ds.WBSNumber{CarNumber: 7, ProjectNumber: 7, WorkPackageNumber: 7}

	f.store.On("GetUser", mock.Anything, uint(3)).Return(user(3, role.Member), nil)
	f.store.On("GetChangeRequest", mock.Anything, uint(8)).Return(&ds.ChangeRequest{CRID: 8, Accepted: boolPtr(true)}, nil)
	f.store.On("GetWorkPackage", mock.Anything, uint(50)).Return(harnessPackage(fixedNow), nil)
	f.store.On("GetWBSElementByNumber", mock.Anything, dep).Return(nil, repository.ErrNotFound)

	err := f.svc.EditWorkPackage(context.Background(), changerequest.WorkPackageEdit{
		UserID: 3, CRID: 8, WorkPackageID: 50, Dependencies: []ds.WBSNumber{dep},
	})

	requireKind(t, err, changerequest.KindNotFound)
	assert.Contains(t, err.Error(), "wbs number 7.7.7 not found")
}

func TestGetWorkPackage(t *testing.T) {
	f := newFixture()
	num := ds.WBSNumber{CarNumber: 1, ProjectNumber: 2, WorkPackageNumber: 3}
	f.store.On("GetWorkPackageByNumber", mock.Anything, num).Return(nil, repository.ErrNotFound)

	_, err := f.svc.GetWorkPackage(context.Background(), num)
	requireKind(t, err, changerequest.KindNotFound)

	_, err = f.svc.GetWorkPackage(context.Background(), ds.WBSNumber{CarNumber: 1, ProjectNumber: 2})
	requireKind(t, err, changerequest.KindValidation)
}
