package domain

// EnforceRequest is the question every authorization check asks: may this
// employee perform this action on this resource.
type EnforceRequest struct {
	EmployeeID string
	Resource   string
	Action     string
}
