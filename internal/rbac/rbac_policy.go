package rbac

const (
	RoleEmployee = "EMPLOYEE"
	RoleTeamLead = "TEAM_LEAD"
	RoleHR       = "HR"
)

type permission struct {
	Resource string
	Action   string
}

// rolePermissions is the portal's fixed permission matrix. Roles are a column
// on the profile row rather than a managed table, so the matrix ships with the
// binary and only role assignment is data.
var rolePermissions = map[string][]permission{
	RoleEmployee: {
		{Resource: "leave", Action: "read"},
		{Resource: "leave", Action: "create"},
		{Resource: "profile", Action: "read"},
		{Resource: "notification", Action: "read"},
	},
	RoleTeamLead: {
		{Resource: "leave", Action: "read"},
		{Resource: "leave", Action: "create"},
		{Resource: "leave", Action: "approve"},
		{Resource: "profile", Action: "read"},
		{Resource: "notification", Action: "read"},
	},
	RoleHR: {
		{Resource: "leave", Action: "read"},
		{Resource: "leave", Action: "create"},
		{Resource: "leave", Action: "approve"},
		{Resource: "profile", Action: "read"},
		{Resource: "profile", Action: "manage"},
		{Resource: "notification", Action: "read"},
	},
}
