package domain

type User struct {
	ID        int    `json:"id" db:"id"`
	Username  string `json:"username" db:"username"`
	Password  string `json:"password,omitempty" db:"password"`
	Role      string `json:"role" db:"role"`
	CreatedAt string `json:"created_at,omitempty" db:"created_at"`
}
