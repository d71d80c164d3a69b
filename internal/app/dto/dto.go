package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============ Common ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationErrorResponse lists every rule a request body broke.
type ValidationErrorResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

type WBSNum struct {
	CarNumber         int `json:"carNumber" binding:"gte=0"`
	ProjectNumber     int `json:"projectNumber" binding:"gte=0"`
	WorkPackageNumber int `json:"workPackageNumber" binding:"gte=0"`
}

type User struct {
	UserID    uint   `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type DescriptionBullet struct {
	ID              uint       `json:"id"`
	Detail          string     `json:"detail"`
	DateAdded       time.Time  `json:"dateAdded"`
	DateDeleted     *time.Time `json:"dateDeleted,omitempty"`
	UserCheckedID   *uint      `json:"userCheckedId,omitempty"`
	DateTimeChecked *time.Time `json:"dateTimeChecked,omitempty"`
}

type ImplementedChange struct {
	ChangeID        uint      `json:"changeId"`
	ChangeRequestID uint      `json:"changeRequestId"`
	WBSNum          WBSNum    `json:"wbsNum"`
	Implementer     User      `json:"implementer"`
	Detail          string    `json:"detail"`
	DateImplemented time.Time `json:"dateImplemented"`
}

// ============ Change requests ============

type ScopeWhy struct {
	Type    string `json:"type" binding:"required,oneof=ESTIMATION SCHOOL DESIGN MANUFACTURING RULES OTHER_PROJECT OTHER"`
	Explain string `json:"explain" binding:"required"`
}

type ProposedSolution struct {
	ID             uint            `json:"id"`
	Description    string          `json:"description"`
	ScopeImpact    string          `json:"scopeImpact"`
	TimelineImpact int             `json:"timelineImpact"`
	BudgetImpact   decimal.Decimal `json:"budgetImpact"`
	Approved       bool            `json:"approved"`
	CreatedBy      User            `json:"createdBy"`
	DateCreated    time.Time       `json:"dateCreated"`
}

// ChangeRequest carries the common fields plus the ones of its type.
type ChangeRequest struct {
	CRID               uint                `json:"crId"`
	WBSNum             WBSNum              `json:"wbsNum"`
	WBSName            string              `json:"wbsName"`
	Submitter          User                `json:"submitter"`
	DateSubmitted      time.Time           `json:"dateSubmitted"`
	Type               string              `json:"type"`
	Reviewer           *User               `json:"reviewer,omitempty"`
	DateReviewed       *time.Time          `json:"dateReviewed,omitempty"`
	Accepted           *bool               `json:"accepted,omitempty"`
	ReviewNotes        *string             `json:"reviewNotes,omitempty"`
	ImplementedChanges []ImplementedChange `json:"implementedChanges"`

	// activation
	ProjectLead    *User      `json:"projectLead,omitempty"`
	ProjectManager *User      `json:"projectManager,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	ConfirmDetails *bool      `json:"confirmDetails,omitempty"`

	// stage gate
	LeftoverBudget *decimal.Decimal `json:"leftoverBudget,omitempty"`
	ConfirmDone    *bool            `json:"confirmDone,omitempty"`

	// standard
	What              string             `json:"what,omitempty"`
	Why               []ScopeWhy         `json:"why,omitempty"`
	ScopeImpact       string             `json:"scopeImpact,omitempty"`
	BudgetImpact      *decimal.Decimal   `json:"budgetImpact,omitempty"`
	TimelineImpact    *int               `json:"timelineImpact,omitempty"`
	ProposedSolutions []ProposedSolution `json:"proposedSolutions,omitempty"`
}

type ReviewChangeRequest struct {
	ReviewerID  uint   `json:"reviewerId" binding:"required"`
	CRID        uint   `json:"crId" binding:"required"`
	ReviewNotes string `json:"reviewNotes"`
	Accepted    *bool  `json:"accepted" binding:"required"`
	PSID        *uint  `json:"psId" binding:"omitempty,gt=0"`
}

type CreateActivationChangeRequest struct {
	SubmitterID      uint      `json:"submitterId" binding:"required"`
	WBSNum           *WBSNum   `json:"wbsNum" binding:"required"`
	Type             string    `json:"type" binding:"required,eq=ACTIVATION"`
	ProjectLeadID    uint      `json:"projectLeadId" binding:"required"`
	ProjectManagerID uint      `json:"projectManagerId" binding:"required"`
	StartDate        time.Time `json:"startDate" binding:"required"`
	ConfirmDetails   bool      `json:"confirmDetails"`
}

type CreateStageGateChangeRequest struct {
	SubmitterID    uint            `json:"submitterId" binding:"required"`
	WBSNum         *WBSNum         `json:"wbsNum" binding:"required"`
	Type           string          `json:"type" binding:"required,eq=STAGE_GATE"`
	LeftoverBudget decimal.Decimal `json:"leftoverBudget" binding:"gte=0"`
	ConfirmDone    bool            `json:"confirmDone"`
}

type CreateStandardChangeRequest struct {
	SubmitterID    uint            `json:"submitterId" binding:"required"`
	WBSNum         *WBSNum         `json:"wbsNum" binding:"required"`
	Type           string          `json:"type" binding:"required,oneof=ISSUE DEFINITION_CHANGE OTHER"`
	What           string          `json:"what" binding:"required"`
	Why            []ScopeWhy      `json:"why" binding:"required,min=1,dive"`
	ScopeImpact    string          `json:"scopeImpact"`
	TimelineImpact int             `json:"timelineImpact" binding:"gte=0"`
	BudgetImpact   decimal.Decimal `json:"budgetImpact" binding:"gte=0"`
}

type AddProposedSolution struct {
	SubmitterID    uint            `json:"submitterId" binding:"required"`
	CRID           uint            `json:"crId" binding:"required"`
	Description    string          `json:"description" binding:"required"`
	ScopeImpact    string          `json:"scopeImpact" binding:"required"`
	TimelineImpact int             `json:"timelineImpact" binding:"gte=0"`
	BudgetImpact   decimal.Decimal `json:"budgetImpact" binding:"gte=0"`
}

// ============ Work packages ============

type WorkPackage struct {
	ID                 uint                `json:"id"`
	WBSNum             WBSNum              `json:"wbsNum"`
	DateCreated        time.Time           `json:"dateCreated"`
	Name               string              `json:"name"`
	Status             string              `json:"status"`
	ProjectLead        *User               `json:"projectLead,omitempty"`
	ProjectManager     *User               `json:"projectManager,omitempty"`
	Changes            []ImplementedChange `json:"changes"`
	OrderInProject     int                 `json:"orderInProject"`
	Progress           int                 `json:"progress"`
	StartDate          time.Time           `json:"startDate"`
	EndDate            time.Time           `json:"endDate"`
	Duration           int                 `json:"duration"`
	ExpectedProgress   int                 `json:"expectedProgress"`
	TimelineStatus     string              `json:"timelineStatus"`
	Dependencies       []WBSNum            `json:"dependencies"`
	ExpectedActivities []DescriptionBullet `json:"expectedActivities"`
	Deliverables       []DescriptionBullet `json:"deliverables"`
	ProjectName        string              `json:"projectName"`
}

type BulletInput struct {
	ID     int    `json:"id"`
	Detail string `json:"detail" binding:"required"`
}

type EditWorkPackage struct {
	UserID             uint          `json:"userId" binding:"required"`
	WorkPackageID      uint          `json:"workPackageId" binding:"required"`
	CRID               uint          `json:"crId" binding:"required"`
	Name               string        `json:"name" binding:"required"`
	StartDate          time.Time     `json:"startDate" binding:"required"`
	Duration           int           `json:"duration" binding:"gte=0"`
	Dependencies       []WBSNum      `json:"dependencies" binding:"dive"`
	ExpectedActivities []BulletInput `json:"expectedActivities" binding:"dive"`
	Deliverables       []BulletInput `json:"deliverables" binding:"dive"`
	WBSElementStatus   string        `json:"wbsElementStatus" binding:"required,oneof=INACTIVE ACTIVE COMPLETE"`
	ProjectLead        *uint         `json:"projectLead" binding:"omitempty,gt=0"`
	ProjectManager     *uint         `json:"projectManager" binding:"omitempty,gt=0"`
	Progress           int           `json:"progress" binding:"gte=0,lte=100"`
}

// ============ Projects ============

type Project struct {
	ID                    uint                `json:"id"`
	WBSNum                WBSNum              `json:"wbsNum"`
	DateCreated           time.Time           `json:"dateCreated"`
	Name                  string              `json:"name"`
	Status                string              `json:"status"`
	ProjectLead           *User               `json:"projectLead,omitempty"`
	ProjectManager        *User               `json:"projectManager,omitempty"`
	Changes               []ImplementedChange `json:"changes"`
	TeamName              string              `json:"teamName,omitempty"`
	Budget                int                 `json:"budget"`
	Summary               string              `json:"summary"`
	Rules                 []string            `json:"rules"`
	Duration              int                 `json:"duration"`
	Goals                 []DescriptionBullet `json:"goals"`
	Features              []DescriptionBullet `json:"features"`
	OtherConstraints      []DescriptionBullet `json:"otherConstraints"`
	GoogleDriveFolderLink string              `json:"gDriveLink,omitempty"`
	SlideDeckLink         string              `json:"slideDeckLink,omitempty"`
	BOMLink               string              `json:"bomLink,omitempty"`
	TaskListLink          string              `json:"taskListLink,omitempty"`
	WorkPackages          []WorkPackage       `json:"workPackages"`
}

type CreateProject struct {
	UserID    uint   `json:"userId" binding:"required"`
	CRID      uint   `json:"crId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	CarNumber int    `json:"carNumber" binding:"gte=0"`
	Summary   string `json:"summary" binding:"required"`
}

type CreateProjectResponse struct {
	WBSNumber WBSNum `json:"wbsNumber"`
}

// ProjectBulletInput without an id is a new bullet.
type ProjectBulletInput struct {
	ID     *int   `json:"id" binding:"omitempty,gt=0"`
	Detail string `json:"detail" binding:"required"`
}

type EditProject struct {
	UserID                uint                 `json:"userId" binding:"required"`
	ProjectID             uint                 `json:"projectId" binding:"required"`
	CRID                  uint                 `json:"crId" binding:"required"`
	Name                  string               `json:"name" binding:"required"`
	Budget                int                  `json:"budget" binding:"gte=0"`
	Summary               string               `json:"summary" binding:"required"`
	Rules                 []string             `json:"rules" binding:"dive,required"`
	Goals                 []ProjectBulletInput `json:"goals" binding:"dive"`
	Features              []ProjectBulletInput `json:"features" binding:"dive"`
	OtherConstraints      []ProjectBulletInput `json:"otherConstraints" binding:"dive"`
	WBSElementStatus      string               `json:"wbsElementStatus" binding:"required,oneof=INACTIVE ACTIVE COMPLETE"`
	GoogleDriveFolderLink string               `json:"googleDriveFolderLink" binding:"omitempty,url"`
	SlideDeckLink         string               `json:"slideDeckLink" binding:"omitempty,url"`
	BOMLink               string               `json:"bomLink" binding:"omitempty,url"`
	TaskListLink          string               `json:"taskListLink" binding:"omitempty,url"`
	ProjectLead           *uint                `json:"projectLead" binding:"omitempty,gt=0"`
	ProjectManager        *uint                `json:"projectManager" binding:"omitempty,gt=0"`
}

// ============ Description bullets ============

type CheckDescriptionBullet struct {
	UserID        uint `json:"userId" binding:"required"`
	DescriptionID uint `json:"descriptionId" binding:"required"`
}

// ============ Users ============

type DevLogin struct {
	UserID uint `json:"userId" binding:"required"`
}
