package domain

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSalesRep Role = "sales_rep"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSalesRep
}

type AdminPermission string

const (
	PermissionFull       AdminPermission = "full"
	PermissionOrdersOnly AdminPermission = "orders_only"
)

// User is an admin or sales rep account. Secrets never leave the process in JSON.
type User struct {
	ID                 string          `json:"id"`
	Username           string          `json:"username"`
	PasswordHash       string          `json:"-"`
	FullName           string          `json:"full_name"`
	Role               Role            `json:"role"`
	Phone              string          `json:"phone,omitempty"`
	Email              string          `json:"email,omitempty"`
	SecurityQuestion   string          `json:"security_question,omitempty"`
	SecurityAnswerHash string          `json:"-"`
	IsActive           bool            `json:"is_active"`
	AdminPermission    AdminPermission `json:"admin_permission,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// HasFullAccess reports whether the user is an admin allowed past order management.
// Admins created before permissions existed carry no permission and count as full.
func (u *User) HasFullAccess() bool {
	return u.IsAdmin() && u.AdminPermission != PermissionOrdersOnly
}

// DisplayName is what notifications show for the user.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

type UserPatch struct {
	Username           *string          `json:"username,omitempty"`
	PasswordHash       *string          `json:"-"`
	FullName           *string          `json:"full_name,omitempty"`
	Phone              *string          `json:"phone,omitempty"`
	Email              *string          `json:"email,omitempty"`
	SecurityQuestion   *string          `json:"security_question,omitempty"`
	SecurityAnswerHash *string          `json:"-"`
	IsActive           *bool            `json:"is_active,omitempty"`
	AdminPermission    *AdminPermission `json:"admin_permission,omitempty"`
}

func (p UserPatch) Apply(u *User) {
	setString(&u.Username, p.Username)
	setString(&u.PasswordHash, p.PasswordHash)
	setString(&u.FullName, p.FullName)
	setString(&u.Phone, p.Phone)
	setString(&u.Email, p.Email)
	setString(&u.SecurityQuestion, p.SecurityQuestion)
	setString(&u.SecurityAnswerHash, p.SecurityAnswerHash)
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.AdminPermission != nil {
		u.AdminPermission = *p.AdminPermission
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
