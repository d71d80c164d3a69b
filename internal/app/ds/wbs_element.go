package ds

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type WBSStatus string

const (
	StatusInactive WBSStatus = "INACTIVE"
	StatusActive   WBSStatus = "ACTIVE"
	StatusComplete WBSStatus = "COMPLETE"
)

// WBSNumber addresses a WBS element: car.project.workPackage.
// Projects have a zero work package number.
type WBSNumber struct {
	CarNumber         int
	ProjectNumber     int
	WorkPackageNumber int
}

func (n WBSNumber) String() string {
	return fmt.Sprintf("%d.%d.%d", n.CarNumber, n.ProjectNumber, n.WorkPackageNumber)
}

func (n WBSNumber) IsProject() bool {
	return n.WorkPackageNumber == 0
}

// ParseWBSNumber parses the dotted "1.2.3" form.
func ParseWBSNumber(s string) (WBSNumber, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return WBSNumber{}, fmt.Errorf("wbs number %q must have three parts", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return WBSNumber{}, fmt.Errorf("wbs number %q has invalid part %q", s, p)
		}
		nums[i] = v
	}
	return WBSNumber{CarNumber: nums[0], ProjectNumber: nums[1], WorkPackageNumber: nums[2]}, nil
}

// WBSElement is the shared row behind projects and work packages.
type WBSElement struct {
	WBSElementID      uint      `gorm:"primaryKey;column:wbs_element_id"`
	CarNumber         int       `gorm:"not null;uniqueIndex:idx_wbs_number"`
	ProjectNumber     int       `gorm:"not null;uniqueIndex:idx_wbs_number"`
	WorkPackageNumber int       `gorm:"not null;uniqueIndex:idx_wbs_number"`
	Name              string    `gorm:"type:varchar(255);not null"`
	Status            WBSStatus `gorm:"type:varchar(20);not null;default:'INACTIVE'"`
	DateCreated       time.Time `gorm:"not null"`
	ProjectLeadID     *uint     `gorm:"default:null"`
	ProjectManagerID  *uint     `gorm:"default:null"`

	ProjectLead    *User        `gorm:"foreignKey:ProjectLeadID;references:UserID"`
	ProjectManager *User        `gorm:"foreignKey:ProjectManagerID;references:UserID"`
	Changes        []Change     `gorm:"foreignKey:WBSElementID;references:WBSElementID"`
	Project        *Project     `gorm:"foreignKey:WBSElementID;references:WBSElementID"`
	WorkPackage    *WorkPackage `gorm:"foreignKey:WBSElementID;references:WBSElementID"`
}

func (WBSElement) TableName() string {
	return "wbs_elements"
}

func (e WBSElement) Number() WBSNumber {
	return WBSNumber{
		CarNumber:         e.CarNumber,
		ProjectNumber:     e.ProjectNumber,
		WorkPackageNumber: e.WorkPackageNumber,
	}
}

// Project is a top level WBS element (work package number 0).
type Project struct {
	ProjectID             uint       `gorm:"primaryKey;column:project_id"`
	WBSElementID          uint       `gorm:"not null;uniqueIndex;column:wbs_element_id"`
	TeamID                *uint      `gorm:"default:null"`
	Budget                int        `gorm:"not null;default:0"`
	Summary               string     `gorm:"type:text"`
	Rules                 StringList `gorm:"type:jsonb;not null;default:'[]'"`
	GoogleDriveFolderLink string     `gorm:"type:text"`
	SlideDeckLink         string     `gorm:"type:text"`
	BOMLink               string     `gorm:"type:text;column:bom_link"`
	TaskListLink          string     `gorm:"type:text"`

	WBSElement       WBSElement          `gorm:"foreignKey:WBSElementID;references:WBSElementID"`
	Team             *Team               `gorm:"foreignKey:TeamID;references:TeamID"`
	WorkPackages     []WorkPackage       `gorm:"foreignKey:ProjectID;references:ProjectID"`
	Goals            []DescriptionBullet `gorm:"foreignKey:ProjectIDGoals;references:ProjectID"`
	Features         []DescriptionBullet `gorm:"foreignKey:ProjectIDFeatures;references:ProjectID"`
	OtherConstraints []DescriptionBullet `gorm:"foreignKey:ProjectIDOtherConstraints;references:ProjectID"`
}

type WorkPackage struct {
	WorkPackageID  uint      `gorm:"primaryKey;column:work_package_id"`
	WBSElementID   uint      `gorm:"not null;uniqueIndex;column:wbs_element_id"`
	ProjectID      uint      `gorm:"not null;index"`
	OrderInProject int       `gorm:"not null"`
	StartDate      time.Time `gorm:"not null"`
	Duration       int       `gorm:"not null"` // weeks
	Progress       int       `gorm:"not null;default:0"`

	WBSElement         WBSElement          `gorm:"foreignKey:WBSElementID;references:WBSElementID"`
	Project            Project             `gorm:"foreignKey:ProjectID;references:ProjectID"`
	ExpectedActivities []DescriptionBullet `gorm:"foreignKey:WorkPackageIDExpectedActivities;references:WorkPackageID"`
	Deliverables       []DescriptionBullet `gorm:"foreignKey:WorkPackageIDDeliverables;references:WorkPackageID"`
	Dependencies       []WBSElement        `gorm:"many2many:work_package_dependencies;foreignKey:WorkPackageID;joinForeignKey:WorkPackageID;references:WBSElementID;joinReferences:WBSElementID"`
}

// DescriptionBullet is a checkable line item. Deleted bullets keep their row with DateDeleted set.
type DescriptionBullet struct {
	DescriptionID                   uint       `gorm:"primaryKey;column:description_id"`
	Detail                          string     `gorm:"type:text;not null"`
	DateAdded                       time.Time  `gorm:"not null"`
	DateDeleted                     *time.Time `gorm:"default:null"`
	DateTimeChecked                 *time.Time `gorm:"default:null"`
	UserCheckedID                   *uint      `gorm:"default:null"`
	WorkPackageIDExpectedActivities *uint      `gorm:"index;column:work_package_id_expected_activities"`
	WorkPackageIDDeliverables       *uint      `gorm:"index;column:work_package_id_deliverables"`
	ProjectIDGoals                  *uint      `gorm:"index;column:project_id_goals"`
	ProjectIDFeatures               *uint      `gorm:"index;column:project_id_features"`
	ProjectIDOtherConstraints       *uint      `gorm:"index;column:project_id_other_constraints"`

	UserChecked *User `gorm:"foreignKey:UserCheckedID;references:UserID"`
}
