package model

// Scope is the tenant boundary of a request, resolved once from the
// authenticated user and threaded explicitly through every data-access call.
// Superadmin gets the AllTenants variant rather than an empty filter.
type Scope struct {
	CompanyID  string
	AllTenants bool
}

func ScopeFor(user *User) Scope {
	if user.Role == RoleSuperadmin {
		return Scope{AllTenants: true}
	}
	return Scope{CompanyID: user.CompanyID}
}

// Contains reports whether a resource owned by companyID is visible in this
// scope. Out-of-scope resources are reported as not found, never forbidden.
func (s Scope) Contains(companyID string) bool {
	return s.AllTenants || s.CompanyID == companyID
}
