package models

import "time"

type ScreeningStatus string

const (
	StatusPending    ScreeningStatus = "pending"
	StatusInProgress ScreeningStatus = "in_progress"
	StatusCompleted  ScreeningStatus = "completed"
	StatusCancelled  ScreeningStatus = "cancelled"
)

var screeningTransitions = map[ScreeningStatus][]ScreeningStatus{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func (s ScreeningStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a session may move from s to next.
// completed and cancelled are final.
func (s ScreeningStatus) CanTransition(next ScreeningStatus) bool {
	for _, allowed := range screeningTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type ScreeningKind string

const (
	KindSchool   ScreeningKind = "school"
	KindHospital ScreeningKind = "hospital"
)

func (k ScreeningKind) Valid() bool { return k == KindSchool || k == KindHospital }

// Sub-results of one exam. Each is stored as a JSON column and may be absent
// until the corresponding station has run.

type VisualAcuity struct {
	RightEye    string `json:"right_eye"` // Snellen, e.g. "20/20" or "6/9"
	LeftEye     string `json:"left_eye"`
	BothEyes    string `json:"both_eyes,omitempty"`
	WithGlasses bool   `json:"with_glasses"`
	Method      string `json:"method,omitempty"`
}

type IntraocularPressure struct {
	RightEye float64 `json:"right_eye"` // mmHg
	LeftEye  float64 `json:"left_eye"`
	Method   string  `json:"method,omitempty"`
}

type RetinalImaging struct {
	RightImageURL string `json:"right_image_url,omitempty"`
	LeftImageURL  string `json:"left_image_url,omitempty"`
	Findings      string `json:"findings,omitempty"`
	Abnormal      bool   `json:"abnormal"`
}

type CornealCurvature struct {
	RightK1 float64 `json:"right_k1"` // diopters
	RightK2 float64 `json:"right_k2"`
	LeftK1  float64 `json:"left_k1"`
	LeftK2  float64 `json:"left_k2"`
}

type ScreeningSession struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Kind       ScreeningKind   `json:"kind" gorm:"size:20;not null;index"`
	Status     ScreeningStatus `json:"status" gorm:"size:20;not null;index"`
	PatientID  uint            `json:"patient_id" gorm:"index;not null"`
	Patient    *Patient        `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	StudentID  *uint           `json:"student_id" gorm:"index"`
	SchoolID   *uint           `json:"school_id" gorm:"index"`
	HospitalID *uint           `json:"hospital_id" gorm:"index"`
	ExaminerID *uint           `json:"examiner_id"`
	ScreenedAt *time.Time      `json:"screened_at,omitempty"`

	VisualAcuity        *VisualAcuity        `json:"visual_acuity,omitempty" gorm:"serializer:json;type:text"`
	IntraocularPressure *IntraocularPressure `json:"intraocular_pressure,omitempty" gorm:"serializer:json;type:text"`
	RetinalImaging      *RetinalImaging      `json:"retinal_imaging,omitempty" gorm:"serializer:json;type:text"`
	CornealCurvature    *CornealCurvature    `json:"corneal_curvature,omitempty" gorm:"serializer:json;type:text"`

	ReferralNeeded bool      `json:"referral_needed" gorm:"not null"`
	Notes          string    `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
