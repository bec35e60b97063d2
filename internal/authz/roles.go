package authz

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
)

// CanDecide — принимать/отклонять pending-наряд может только менеджер.
func CanDecide(role string) bool {
	return role == RoleManager
}
