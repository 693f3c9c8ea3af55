package auth

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
	RoleGuest   Role = "guest"
)

// capabilities is the single place role permissions are defined. Adding a
// role means adding one row here.
var capabilities = map[Role]struct {
	Upload bool
}{
	RoleAdmin:   {Upload: true},
	RoleAnalyst: {Upload: true},
	RoleGuest:   {Upload: false},
}

func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

// CanUpload reports whether the role may supply its own dataset. Roles
// without an upload capability are served the bundled demo dataset instead.
func (r Role) CanUpload() bool {
	return capabilities[r].Upload
}

type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	DisplayName  string `json:"display_name"`
}
