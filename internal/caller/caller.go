// Package caller describes who is making a request. It is resolved once
// per request and passed explicitly to use cases.
package caller

import "github.com/BruksfildServices01/agenda-api/internal/models"

type Kind int

const (
	Anonymous Kind = iota
	Owner
	Staff
	Customer
)

func (k Kind) String() string {
	switch k {
	case Owner:
		return models.RoleOwner
	case Staff:
		return models.RoleStaff
	case Customer:
		return models.RoleCustomer
	default:
		return "anonymous"
	}
}

func ParseKind(role string) Kind {
	switch role {
	case models.RoleOwner:
		return Owner
	case models.RoleStaff:
		return Staff
	case models.RoleCustomer:
		return Customer
	default:
		return Anonymous
	}
}

// Caller is a tagged union: which ids are meaningful depends on Kind.
//
//	Owner:    UserID, BusinessID
//	Staff:    UserID, BusinessID, StaffID
//	Customer: UserID
type Caller struct {
	Kind       Kind
	UserID     uint
	BusinessID uint
	StaffID    uint
}

func NewAnonymous() Caller {
	return Caller{Kind: Anonymous}
}

func NewOwner(userID, businessID uint) Caller {
	return Caller{Kind: Owner, UserID: userID, BusinessID: businessID}
}

func NewStaff(userID, businessID, staffID uint) Caller {
	return Caller{Kind: Staff, UserID: userID, BusinessID: businessID, StaffID: staffID}
}

func NewCustomer(userID uint) Caller {
	return Caller{Kind: Customer, UserID: userID}
}

func (c Caller) Authenticated() bool {
	return c.Kind != Anonymous && c.UserID != 0
}

func (c Caller) IsOwnerOf(businessID uint) bool {
	return c.Kind == Owner && businessID != 0 && c.BusinessID == businessID
}

func (c Caller) IsStaff(businessID, staffID uint) bool {
	return c.Kind == Staff && c.BusinessID == businessID && c.StaffID == staffID
}

// CanAccessStaff: the owner, or the staff member itself.
func (c Caller) CanAccessStaff(businessID, staffID uint) bool {
	return c.IsOwnerOf(businessID) || c.IsStaff(businessID, staffID)
}

// CanViewBusiness is true for anyone working at the business.
func (c Caller) CanViewBusiness(businessID uint) bool {
	return (c.Kind == Owner || c.Kind == Staff) && businessID != 0 && c.BusinessID == businessID
}

// CanManageAppointment covers cancel, complete and private reads.
func (c Caller) CanManageAppointment(ap *models.Appointment) bool {
	return c.CanAccessStaff(ap.BusinessID, ap.StaffMemberID)
}

// OwnsCustomer is true when the customer profile belongs to the caller.
func (c Caller) OwnsCustomer(cu *models.Customer) bool {
	return c.Kind == Customer && c.UserID != 0 && cu.UserID == c.UserID
}
