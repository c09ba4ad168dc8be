package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleHead     UserRole = "head"
	RoleBorrower UserRole = "borrower"
)

// IsValid reports whether r is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleHead, RoleBorrower:
		return true
	}
	return false
}

// IsStaff reports whether the role carries administrative authority.
func (r UserRole) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleHead:
		return true
	case RoleBorrower:
		return false
	}
	return false
}

type BorrowerType string

const (
	BorrowerTeacher  BorrowerType = "teacher"
	BorrowerStudent  BorrowerType = "student"
	BorrowerExternal BorrowerType = "external"
)

func (b BorrowerType) IsValid() bool {
	switch b {
	case BorrowerTeacher, BorrowerStudent, BorrowerExternal:
		return true
	}
	return false
}

// User is an identity in the directory. BorrowerType is set iff Role is RoleBorrower.
type User struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	Account      string        `json:"account" gorm:"not null;size:100;uniqueIndex"`
	Role         UserRole      `json:"role" gorm:"not null;size:16;index"`
	BorrowerType *BorrowerType `json:"borrower_type" gorm:"size:16;index"`
	Name         string        `json:"name" gorm:"not null;size:100"`
	Contact      *string       `json:"contact" gorm:"size:100"`
	College      *string       `json:"college" gorm:"size:100"`
	TeacherNo    *string       `json:"teacher_no" gorm:"size:32;uniqueIndex"`
	StudentNo    *string       `json:"student_no" gorm:"size:32;uniqueIndex"`
	AdvisorNo    *string       `json:"advisor_no" gorm:"size:32;index"`
	OrgName      *string       `json:"org_name" gorm:"size:128"`
	IsActive     bool          `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the user is an admin or head.
func (u *User) IsStaff() bool {
	return u != nil && u.Role.IsStaff()
}

// IsTeacher reports whether the user is a borrower of teacher type.
func (u *User) IsTeacher() bool {
	return u != nil && u.BorrowerType != nil && *u.BorrowerType == BorrowerTeacher
}

// Supervises reports whether u is the advisor of student.
func (u *User) Supervises(student *User) bool {
	if !u.IsTeacher() || student == nil || u.TeacherNo == nil || student.AdvisorNo == nil {
		return false
	}
	return *u.TeacherNo != "" && *u.TeacherNo == *student.AdvisorNo
}

// DeriveAccount returns the login identifier for a borrower: the institutional
// number for teachers and students, the contact for external borrowers.
func DeriveAccount(bt BorrowerType, teacherNo, studentNo, contact string) string {
	switch bt {
	case BorrowerTeacher:
		return teacherNo
	case BorrowerStudent:
		return studentNo
	case BorrowerExternal:
		return contact
	}
	return ""
}
