package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finishline/internal/app/changerequest"
	"finishline/internal/app/config"
	"finishline/internal/app/ds"
	"finishline/internal/app/dto"
	"finishline/internal/app/middleware"
	"finishline/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) Now() time.Time {
	return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
}

func (m *serviceMock) ListChangeRequests(ctx context.Context) ([]ds.ChangeRequest, error) {
	args := m.Called(ctx)
	crs, _ := args.Get(0).([]ds.ChangeRequest)
	return crs, args.Error(1)
}

func (m *serviceMock) GetChangeRequest(ctx context.Context, id uint) (*ds.ChangeRequest, error) {
	args := m.Called(ctx, id)
	cr, _ := args.Get(0).(*ds.ChangeRequest)
	return cr, args.Error(1)
}

func (m *serviceMock) CreateActivation(ctx context.Context, in changerequest.ActivationInput) (uint, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(uint), args.Error(1)
}

func (m *serviceMock) CreateStageGate(ctx context.Context, in changerequest.StageGateInput) (uint, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(uint), args.Error(1)
}

func (m *serviceMock) CreateStandard(ctx context.Context, in changerequest.StandardInput) (uint, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(uint), args.Error(1)
}

func (m *serviceMock) Review(ctx context.Context, in changerequest.ReviewInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *serviceMock) AddProposedSolution(ctx context.Context, in changerequest.ProposedSolutionInput) (uint, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(uint), args.Error(1)
}

func (m *serviceMock) ListWorkPackages(ctx context.Context) ([]ds.WorkPackage, error) {
	args := m.Called(ctx)
	wps, _ := args.Get(0).([]ds.WorkPackage)
	return wps, args.Error(1)
}

func (m *serviceMock) GetWorkPackage(ctx context.Context, n ds.WBSNumber) (*ds.WorkPackage, error) {
	args := m.Called(ctx, n)
	wp, _ := args.Get(0).(*ds.WorkPackage)
	return wp, args.Error(1)
}

func (m *serviceMock) EditWorkPackage(ctx context.Context, in changerequest.WorkPackageEdit) error {
	return m.Called(ctx, in).Error(0)
}

func (m *serviceMock) ListProjects(ctx context.Context) ([]ds.Project, error) {
	args := m.Called(ctx)
	projects, _ := args.Get(0).([]ds.Project)
	return projects, args.Error(1)
}

func (m *serviceMock) GetProject(ctx context.Context, n ds.WBSNumber) (*ds.Project, error) {
	args := m.Called(ctx, n)
	p, _ := args.Get(0).(*ds.Project)
	return p, args.Error(1)
}

func (m *serviceMock) CreateProject(ctx context.Context, in changerequest.ProjectCreate) (ds.WBSNumber, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(ds.WBSNumber), args.Error(1)
}

func (m *serviceMock) EditProject(ctx context.Context, in changerequest.ProjectEdit) error {
	return m.Called(ctx, in).Error(0)
}

func (m *serviceMock) CheckDescriptionBullet(ctx context.Context, userID, descriptionID uint) (*ds.DescriptionBullet, error) {
	args := m.Called(ctx, userID, descriptionID)
	b, _ := args.Get(0).(*ds.DescriptionBullet)
	return b, args.Error(1)
}

type usersMock struct {
	mock.Mock
}

func (m *usersMock) GetUser(ctx context.Context, id uint) (*ds.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*ds.User)
	return u, args.Error(1)
}

func (m *usersMock) ListUsers(ctx context.Context) ([]ds.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).([]ds.User)
	return u, args.Error(1)
}

type blacklistMock struct {
	mock.Mock
}

func (m *blacklistMock) WriteJWTToBlacklist(ctx context.Context, jwtStr string, ttl time.Duration) error {
	return m.Called(ctx, jwtStr, ttl).Error(0)
}

func testConfig(mode string) *config.Config {
	return &config.Config{
		Mode: mode,
		JWT: config.JWTConfig{
			Token:         "secret",
			ExpiresIn:     time.Hour,
			SigningMethod: jwt.SigningMethodHS256,
		},
	}
}

type testServer struct {
	router  *gin.Engine
	service *serviceMock
	users   *usersMock
	cfg     *config.Config
}

func newTestServer(t *testing.T, mode string, blacklist TokenBlacklist) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig(mode)
	svc := &serviceMock{}
	users := &usersMock{}
	auth := middleware.NewAuthMiddleware(nil, cfg)
	h := NewAPIHandler(svc, users, auth, blacklist, cfg)

	r := gin.New()
	r.Use(auth.RequireAuth())
	h.RegisterAPIRoutes(r)

	t.Cleanup(func() {
		svc.AssertExpectations(t)
		users.AssertExpectations(t)
	})
	return &testServer{router: r, service: svc, users: users, cfg: cfg}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "1")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestWelcome(t *testing.T) {
	s := newTestServer(t, config.ModeDev, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `"Welcome to FinishLine"`, w.Body.String())
}

func TestCreateStandardChangeRequest(t *testing.T) {
	s := newTestServer(t, config.ModeDev, nil)

	s.service.On("CreateStandard", mock.Anything, changerequest.StandardInput{
		SubmitterID:    1,
		WBSNum:         ds.WBSNumber{CarNumber: 1, ProjectNumber: 2, WorkPackageNumber: 0},
		Type:           ds.CRTypeIssue,
		What:           "Redesign the harness",
		Why:            []changerequest.Why{{Type: "DESIGN", Explain: "routing clash"}},
		ScopeImpact:    "more wire",
		TimelineImpact: 2,
		BudgetImpact:   decimal.NewFromInt(40),
	}).Return(uint(17), nil).Once()

	w := s.do(http.MethodPost, "/change-requests/new/standard", `{
		"submitterId": 1,
		"wbsNum": {"carNumber": 1, "projectNumber": 2, "workPackageNumber": 0},
		"type": "ISSUE",
		"what": "Redesign the harness",
		"why": [{"type": "DESIGN", "explain": "routing clash"}],
		"scopeImpact": "more wire",
		"timelineImpact": 2,
		"budgetImpact": 40
	}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.SuccessResponse
	decode(t, w, &resp)
	assert.Equal(t, "Successfully created standard change request #17.", resp.Message)
}

func TestValidationListsEveryViolation(t *testing.T) {
	s := newTestServer(t, config.ModeDev, nil)

	w := s.do(http.MethodPost, "/change-requests/new/standard", `{
		"wbsNum": {"carNumber": -1, "projectNumber": 2, "workPackageNumber": 0},
		"type": "ACTIVATION",
		"why": [],
		"budgetImpact": -5
	}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ValidationErrorResponse
	decode(t, w, &resp)

	fields := make(map[string]string)
	for _, e := range resp.Errors {
		fields[e.Field] = e.Rule
	}
	assert.Equal(t, "required", fields["submitterId"])
	assert.Equal(t, "gte", fields["wbsNum.carNumber"])
	assert.Equal(t, "oneof", fields["type"])
	assert.Equal(t, "required", fields["what"])
	assert.Equal(t, "min", fields["why"])
	assert.Equal(t, "gte", fields["budgetImpact"])
	s.service.AssertNotCalled(t, "CreateStandard", mock.Anything, mock.Anything)
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t, config.ModeDev, nil)

	w := s.do(http.MethodPost, "/change-requests/review", `{"crId":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ValidationErrorResponse
	decode(t, w, &resp)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "body", resp.Errors[0].Field)
}

func TestReviewErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"state conflict", &changerequest.Error{Kind: changerequest.KindStateConflict, Message: "This change request is already reviewed!"}, http.StatusBadRequest, "This change request is already reviewed!"},
		{"forbidden", &changerequest.Error{Kind: changerequest.KindForbidden, Message: "Access Denied"}, http.StatusUnauthorized, "Access Denied"},
		{"not found", &changerequest.Error{Kind: changerequest.KindNotFound, Message: "change request #4 not found"}, http.StatusNotFound, "change request #4 not found"},
		{"internal", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, config.ModeDev, nil)
			s.service.On("Review", mock.Anything, mock.AnythingOfType("changerequest.ReviewInput")).Return(tt.err).Once()

			w := s.do(http.MethodPost, "/change-requests/review", dto.ReviewChangeRequest{
				ReviewerID: 2,
				CRID:       4,
				Accepted:   boolPtr(true),
			})

			assert.Equal(t, tt.code, w.Code)
			var resp dto.ErrorResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.msg, resp.Message)
		})
	}
}

func TestReviewSuccess(t *testing.T) {
	s := newTestServer(t, config.ModeDev, nil)
	psID := uint(3)
	s.service.On("Review", mock.Anything, changerequest.ReviewInput{
		ReviewerID: 2,
		CRID:       4,
		Accepted:   true,
		Notes:      "ok",
		PSID:       &psID,
	}).Return(nil).Once()

	w := s.do(http.MethodPost, "/change-requests/review", dto.ReviewChangeRequest{
		ReviewerID:  2,
		CRID:        4,
		Accepted:    boolPtr(true),
		ReviewNotes: "ok",
		PSID:        &psID,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.SuccessResponse
	decode(t, w, &resp)
	assert.Equal(t, "Change request #4 successfully reviewed.", resp.Message)
}

func TestReviewRequiresAcceptedFlag(t *testing.T) {
	s := newTestServer(t, config.ModeDev, nil)

	w := s.do(http.MethodPost, "/change-requests/review", `{"reviewerId": 2, "crId": 4}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddProposedSolutionReturnsID(t *testing.T) {
	s := newTestServer(t, config.ModeDev, nil)
	s.service.On("AddProposedSolution", mock.Anything, mock.AnythingOfType("changerequest.ProposedSolutionInput")).Return(uint(9), nil).Once()

	w := s.do(http.MethodPost, "/change-requests/new/proposed-solution", dto.AddProposedSolution{
		SubmitterID: 1,
		CRID:        4,
		Description: "use thinner gauge",
		ScopeImpact: "none",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Successfully created the proposed solution #9")
}

func TestGetChangeRequest(t *testing.T) {
	s := newTestServer(t, config.ModeDev, nil)
	s.service.On("GetChangeRequest", mock.Anything, uint(12)).Return(&ds.ChangeRequest{
		CRID:       12,
		Type:       ds.CRTypeActivation,
		WBSElement: ds.WBSElement{CarNumber: 1, ProjectNumber: 1, WorkPackageNumber: 3},
	}, nil).Once()

	w := s.do(http.MethodGet, "/change-requests/12", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var cr dto.ChangeRequest
	decode(t, w, &cr)
	assert.Equal(t, uint(12), cr.CRID)
	assert.Equal(t, 3, cr.WBSNum.WorkPackageNumber)
}

func TestGetChangeRequestUnparsableIDIsNotFound(t *testing.T) {
	s := newTestServer(t, config.ModeDev, nil)

	for _, id := range []string{"abc", "0"} {
		w := s.do(http.MethodGet, "/change-requests/"+id, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		var resp dto.ErrorResponse
		decode(t, w, &resp)
		assert.Equal(t, "change request with id #"+id+" not found", resp.Message)
	}
}

func TestGetWorkPackageMalformedNumber(t *testing.T) {
	s := newTestServer(t, config.ModeDev, nil)

	w := s.do(http.MethodGet, "/work-packages/1.2", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditWorkPackage(t *testing.T) {
	s := newTestServer(t, config.ModeDev, nil)
	s.service.On("EditWorkPackage", mock.Anything, mock.MatchedBy(func(in changerequest.WorkPackageEdit) bool {
		return in.WorkPackageID == 5 &&
			len(in.Dependencies) == 1 && in.Dependencies[0].String() == "1.1.1" &&
			len(in.ExpectedActivities) == 1 && in.ExpectedActivities[0].ID == -1 &&
			in.Status == ds.StatusActive
	})).Return(nil).Once()

	w := s.do(http.MethodPost, "/work-packages/edit", `{
		"userId": 1,
		"workPackageId": 5,
		"crId": 2,
		"name": "Wiring harness",
		"startDate": "2024-01-08T00:00:00Z",
		"duration": 4,
		"dependencies": [{"carNumber": 1, "projectNumber": 1, "workPackageNumber": 1}],
		"expectedActivities": [{"id": -1, "detail": "route the loom"}],
		"deliverables": [],
		"wbsElementStatus": "ACTIVE",
		"progress": 25
	}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestProdRoutesNeedCookie(t *testing.T) {
	s := newTestServer(t, config.ModeProd, nil)

	w := s.do(http.MethodGet, "/change-requests", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	blacklist := &blacklistMock{}
	s := newTestServer(t, config.ModeProd, blacklist)

	token, err := middleware.GenerateAccessToken(s.cfg.JWT, 1, time.Now())
	require.NoError(t, err)
	blacklist.On("WriteJWTToBlacklist", mock.Anything, token, mock.AnythingOfType("time.Duration")).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/users/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	blacklist.AssertExpectations(t)
}

func TestDevLogin(t *testing.T) {
	s := newTestServer(t, config.ModeDev, nil)
	s.users.On("GetUser", mock.Anything, uint(3)).Return(&ds.User{UserID: 3, FirstName: "Ada"}, nil).Once()
	s.users.On("GetUser", mock.Anything, uint(4)).Return(nil, repository.ErrNotFound).Once()

	w := s.do(http.MethodPost, "/users/auth/login/dev", dto.DevLogin{UserID: 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.TokenCookie+"=")

	w = s.do(http.MethodPost, "/users/auth/login/dev", dto.DevLogin{UserID: 4})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func boolPtr(v bool) *bool { return &v }
