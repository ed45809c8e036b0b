package model

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the open self-registration payload.
type RegisterRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	Email         string `json:"email" validate:"required,email,max=255"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
	InstitutionID *int64 `json:"institution_id,omitempty" validate:"omitempty,gt=0"`
}

type CreateUserRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	Email         string `json:"email" validate:"required,email,max=255"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
	ContactNo     string `json:"contact_no,omitempty" validate:"omitempty,max=15"`
	Title         string `json:"title,omitempty" validate:"omitempty,oneof=Mr. Ms. Mrs. Dr."`
	Department    string `json:"department,omitempty" validate:"omitempty,max=255"`
	Role          *Role  `json:"role,omitempty"`
	InstitutionID *int64 `json:"institution_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateUserRequest carries a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password      *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	ContactNo     *string `json:"contact_no,omitempty" validate:"omitempty,max=15"`
	Title         *string `json:"title,omitempty" validate:"omitempty,oneof=Mr. Ms. Mrs. Dr."`
	Department    *string `json:"department,omitempty" validate:"omitempty,max=255"`
	Role          *Role   `json:"role,omitempty"`
	Enabled       *bool   `json:"enabled,omitempty"`
	InstitutionID *int64  `json:"institution_id,omitempty" validate:"omitempty,gt=0"`
}

type CreateInstitutionRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Address    string `json:"address" validate:"required"`
	Email      string `json:"email" validate:"required,email,max=255"`
	ContactNo  string `json:"contact_no" validate:"required,max=10"`
	Membership string `json:"membership,omitempty" validate:"omitempty,oneof=Choice1 Choice2"`
}

type UpdateInstitutionRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Address    *string `json:"address,omitempty" validate:"omitempty,min=1"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	ContactNo  *string `json:"contact_no,omitempty" validate:"omitempty,min=1,max=10"`
	Membership *string `json:"membership,omitempty" validate:"omitempty,oneof=Choice1 Choice2"`
}
