package models

import (
	"encoding/json"
	"fmt"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSupervisor
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v := Role(s)
	if !v.Valid() {
		return fmt.Errorf("invalid role %q", s)
	}
	*r = v
	return nil
}

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusOngoing   ProjectStatus = "ongoing"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "onHold"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusOngoing, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

func (s *ProjectStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	v := ProjectStatus(str)
	if !v.Valid() {
		return fmt.Errorf("invalid project status %q", str)
	}
	*s = v
	return nil
}

type MaterialStatus string

const (
	MaterialStatusRequested MaterialStatus = "requested"
	MaterialStatusApproved  MaterialStatus = "approved"
	MaterialStatusRejected  MaterialStatus = "rejected"
	MaterialStatusReceived  MaterialStatus = "received"
	MaterialStatusUsed      MaterialStatus = "used"
)

func (s MaterialStatus) Valid() bool {
	switch s {
	case MaterialStatusRequested, MaterialStatusApproved, MaterialStatusRejected,
		MaterialStatusReceived, MaterialStatusUsed:
		return true
	}
	return false
}

// Terminal reports whether no further guarded transition is defined.
// A fully consumed material is handled separately (consume checks the pool).
func (s MaterialStatus) Terminal() bool {
	return s == MaterialStatusRejected
}

func (s *MaterialStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	v := MaterialStatus(str)
	if !v.Valid() {
		return fmt.Errorf("invalid material status %q", str)
	}
	*s = v
	return nil
}

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusHalfDay AttendanceStatus = "halfDay"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusHalfDay:
		return true
	}
	return false
}

func (s *AttendanceStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	v := AttendanceStatus(str)
	if !v.Valid() {
		return fmt.Errorf("invalid attendance status %q", str)
	}
	*s = v
	return nil
}

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

func (t *TransactionType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v := TransactionType(s)
	if !v.Valid() {
		return fmt.Errorf("invalid transaction type %q", s)
	}
	*t = v
	return nil
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusCancelled:
		return true
	}
	return false
}

func (s *TransactionStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	v := TransactionStatus(str)
	if !v.Valid() {
		return fmt.Errorf("invalid transaction status %q", str)
	}
	*s = v
	return nil
}

// Reserved transaction categories. Category is otherwise free-form.
const (
	CategoryWorkerSalary  = "worker-salary"
	CategoryWorkerAdvance = "worker-advance"
	CategoryMaterials     = "materials"
)

type PaymentType string

const (
	PaymentTypeSalary  PaymentType = "salary"
	PaymentTypeAdvance PaymentType = "advance"
)

func (p PaymentType) Valid() bool {
	return p == PaymentTypeSalary || p == PaymentTypeAdvance
}

// Category maps a worker payment type onto its reserved ledger category.
func (p PaymentType) Category() string {
	if p == PaymentTypeAdvance {
		return CategoryWorkerAdvance
	}
	return CategoryWorkerSalary
}

func (p *PaymentType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v := PaymentType(s)
	if !v.Valid() {
		return fmt.Errorf("invalid payment type %q", s)
	}
	*p = v
	return nil
}
