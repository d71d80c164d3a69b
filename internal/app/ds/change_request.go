package ds

import (
	"time"

	"github.com/shopspring/decimal"
)

type CRType string

const (
	CRTypeActivation       CRType = "ACTIVATION"
	CRTypeStageGate        CRType = "STAGE_GATE"
	CRTypeIssue            CRType = "ISSUE"
	CRTypeDefinitionChange CRType = "DEFINITION_CHANGE"
	CRTypeOther            CRType = "OTHER"
)

// IsStandard reports whether t is one of the scope (standard) change request types.
func (t CRType) IsStandard() bool {
	return t == CRTypeIssue || t == CRTypeDefinitionChange || t == CRTypeOther
}

// ChangeRequest: Accepted is nil while pending, set exactly once by review.
type ChangeRequest struct {
	CRID          uint       `gorm:"primaryKey;column:cr_id"`
	SubmitterID   uint       `gorm:"not null"`
	WBSElementID  uint       `gorm:"not null;index;column:wbs_element_id"`
	Type          CRType     `gorm:"type:varchar(20);not null"`
	DateSubmitted time.Time  `gorm:"not null"`
	ReviewerID    *uint      `gorm:"default:null"`
	DateReviewed  *time.Time `gorm:"default:null"`
	Accepted      *bool      `gorm:"default:null"`
	ReviewNotes   *string    `gorm:"type:text"`

	Submitter    User          `gorm:"foreignKey:SubmitterID;references:UserID"`
	Reviewer     *User         `gorm:"foreignKey:ReviewerID;references:UserID"`
	WBSElement   WBSElement    `gorm:"foreignKey:WBSElementID;references:WBSElementID"`
	Changes      []Change      `gorm:"foreignKey:ChangeRequestID;references:CRID"`
	ActivationCR *ActivationCR `gorm:"foreignKey:CRID;references:CRID"`
	StageGateCR  *StageGateCR  `gorm:"foreignKey:CRID;references:CRID"`
	ScopeCR      *ScopeCR      `gorm:"foreignKey:CRID;references:CRID"`
}

func (cr ChangeRequest) IsPending() bool {
	return cr.Accepted == nil
}

type ActivationCR struct {
	ActivationCRID   uint      `gorm:"primaryKey;column:activation_cr_id"`
	CRID             uint      `gorm:"not null;uniqueIndex;column:cr_id"`
	ProjectLeadID    uint      `gorm:"not null"`
	ProjectManagerID uint      `gorm:"not null"`
	StartDate        time.Time `gorm:"not null"`
	ConfirmDetails   bool      `gorm:"not null"`

	ProjectLead    User `gorm:"foreignKey:ProjectLeadID;references:UserID"`
	ProjectManager User `gorm:"foreignKey:ProjectManagerID;references:UserID"`
}

func (ActivationCR) TableName() string {
	return "activation_crs"
}

type StageGateCR struct {
	StageGateCRID  uint            `gorm:"primaryKey;column:stage_gate_cr_id"`
	CRID           uint            `gorm:"not null;uniqueIndex;column:cr_id"`
	LeftoverBudget decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ConfirmDone    bool            `gorm:"not null"`
}

func (StageGateCR) TableName() string {
	return "stage_gate_crs"
}

type ScopeCR struct {
	ScopeCRID      uint            `gorm:"primaryKey;column:scope_cr_id"`
	CRID           uint            `gorm:"not null;uniqueIndex;column:cr_id"`
	What           string          `gorm:"type:text;not null"`
	ScopeImpact    string          `gorm:"type:text"`
	TimelineImpact int             `gorm:"not null;default:0"` // weeks
	BudgetImpact   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Why               []ScopeCRWhy       `gorm:"foreignKey:ScopeCRID;references:ScopeCRID"`
	ProposedSolutions []ProposedSolution `gorm:"foreignKey:ScopeCRID;references:ScopeCRID"`
}

func (ScopeCR) TableName() string {
	return "scope_crs"
}

type ScopeCRWhy struct {
	ID        uint   `gorm:"primaryKey"`
	ScopeCRID uint   `gorm:"not null;index;column:scope_cr_id"`
	Type      string `gorm:"type:varchar(20);not null"` // ESTIMATION, SCHOOL, DESIGN, MANUFACTURING, RULES, OTHER_PROJECT, OTHER
	Explain   string `gorm:"type:text;not null"`
}

func (ScopeCRWhy) TableName() string {
	return "scope_cr_whys"
}

type ProposedSolution struct {
	ProposedSolutionID uint            `gorm:"primaryKey;column:proposed_solution_id"`
	ScopeCRID          uint            `gorm:"not null;index;column:scope_cr_id"`
	Description        string          `gorm:"type:text;not null"`
	ScopeImpact        string          `gorm:"type:text"`
	TimelineImpact     int             `gorm:"not null;default:0"`
	BudgetImpact       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Approved           bool            `gorm:"not null;default:false"`
	CreatedByID        uint            `gorm:"not null"`
	DateCreated        time.Time       `gorm:"not null"`

	CreatedBy User `gorm:"foreignKey:CreatedByID;references:UserID"`
}

// Change is an append-only audit line.
type Change struct {
	ChangeID        uint      `gorm:"primaryKey;column:change_id"`
	ChangeRequestID uint      `gorm:"not null;index"`
	ImplementerID   uint      `gorm:"not null"`
	WBSElementID    uint      `gorm:"not null;index;column:wbs_element_id"`
	Detail          string    `gorm:"type:text;not null"`
	DateImplemented time.Time `gorm:"not null"`

	Implementer User `gorm:"foreignKey:ImplementerID;references:UserID"`
}

// ChangeRequestReview is the decision written by a reviewer.
type ChangeRequestReview struct {
	CRID       uint
	ReviewerID uint
	Accepted   bool
	Notes      string
	ReviewedAt time.Time
}
