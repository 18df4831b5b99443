package constants

import "fmt"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var AllRoles = []string{RoleUser, RoleAdmin}

const ErrOnlyAdminsCanAccess = "Only admins may access %s."

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}
