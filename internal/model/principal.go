package model

import "github.com/google/uuid"

type Principal struct {
	UserID uuid.UUID
	Role   string
	Vendor string
}

func (p Principal) IsAdmin() bool {
	return p.Role == "ADMIN"
}

func (p Principal) IsSupervisor() bool {
	return p.Role == "SUPERVISOR"
}

func (p Principal) IsVendor() bool {
	return p.Role == "VENDOR"
}
