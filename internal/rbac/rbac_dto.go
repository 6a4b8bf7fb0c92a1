package rbac

type EnforceRequest struct {
	EmployeeID string `json:"employee_id"`
	OrgID      string `json:"org_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
