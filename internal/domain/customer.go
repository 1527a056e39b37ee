package domain

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a borrower master-data record
type Customer struct {
	ID                    int64           `json:"id" db:"id"`
	FullName              string          `json:"full_name" db:"full_name"`
	DateOfBirth           time.Time       `json:"date_of_birth" db:"date_of_birth"`
	Gender                string          `json:"gender" db:"gender"`
	MaritalStatus         string          `json:"marital_status" db:"marital_status"`
	ResidentialAddress    string          `json:"residential_address" db:"residential_address"`
	Email                 string          `json:"email" db:"email"`
	PhoneNumber           string          `json:"phone_number" db:"phone_number"`
	EmploymentStatus      string          `json:"employment_status" db:"employment_status"`
	MonthlyIncome         decimal.Decimal `json:"monthly_income" db:"monthly_income"`
	IDType                string          `json:"id_type" db:"id_type"`
	IDNumber              string          `json:"id_number" db:"id_number"`
	IDPhotoURL            string          `json:"id_photo_url" db:"id_photo_url"`
	PassportPhotoURL      string          `json:"passport_photo_url" db:"passport_photo_url"`
	NIN                   string          `json:"nin" db:"nin"`
	BVN                   string          `json:"bvn" db:"bvn"`
	GuarantorFullName     string          `json:"guarantor_full_name" db:"guarantor_full_name"`
	GuarantorRelationship string          `json:"guarantor_relationship" db:"guarantor_relationship"`
	GuarantorAddress      string          `json:"guarantor_address" db:"guarantor_address"`
	GuarantorPhone        string          `json:"guarantor_phone" db:"guarantor_phone"`
	GuarantorEmail        string          `json:"guarantor_email" db:"guarantor_email"`
	CreatedAt             time.Time       `json:"created_at" db:"created_at"`
}

type Guarantor struct {
	FullName               string `json:"full_name"`
	RelationshipToBorrower string `json:"relationship_to_borrower"`
	ResidentialAddress     string `json:"residential_address"`
	PhoneNumber            string `json:"phone_number"`
	Email                  string `json:"email" validate:"omitempty,email"`
}

type CreateCustomerRequest struct {
	FullName           string          `json:"full_name" validate:"required"`
	DateOfBirth        time.Time       `json:"date_of_birth" validate:"required"`
	Gender             string          `json:"gender"`
	MaritalStatus      string          `json:"marital_status"`
	ResidentialAddress string          `json:"residential_address"`
	Email              string          `json:"email" validate:"required,email"`
	PhoneNumber        string          `json:"phone_number" validate:"required"`
	EmploymentStatus   string          `json:"employment_status"`
	MonthlyIncome      decimal.Decimal `json:"monthly_income" validate:"decimal_gte=0"`
	IDType             string          `json:"id_type"`
	IDNumber           string          `json:"id_number"`
	NIN                string          `json:"nin"`
	BVN                string          `json:"bvn"`
	Guarantor          Guarantor       `json:"guarantor"`

	IdentificationDocument *Document `json:"-" validate:"-"`
	PassportPhoto          *Document `json:"-" validate:"-"`
}

// UpdateCustomerRequest carries a partial update: nil fields are left untouched.
type UpdateCustomerRequest struct {
	FullName           *string          `json:"full_name,omitempty"`
	DateOfBirth        *time.Time       `json:"date_of_birth,omitempty"`
	Gender             *string          `json:"gender,omitempty"`
	MaritalStatus      *string          `json:"marital_status,omitempty"`
	ResidentialAddress *string          `json:"residential_address,omitempty"`
	Email              *string          `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber        *string          `json:"phone_number,omitempty"`
	EmploymentStatus   *string          `json:"employment_status,omitempty"`
	MonthlyIncome      *decimal.Decimal `json:"monthly_income,omitempty"`
	IDType             *string          `json:"id_type,omitempty"`
	IDNumber           *string          `json:"id_number,omitempty"`
	NIN                *string          `json:"nin,omitempty"`
	BVN                *string          `json:"bvn,omitempty"`
	Guarantor          *Guarantor       `json:"guarantor,omitempty"`
}

type CustomerListResponse struct {
	Customers  []*Customer `json:"customers"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}

// Document is an uploaded customer file. Its content is opaque to the core.
type Document struct {
	Filename string
	Content  io.Reader
}
