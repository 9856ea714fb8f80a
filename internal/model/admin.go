package model

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// swagger:model Admin
type Admin struct {
	BaseModel
	Username     string `gorm:"size:100;unique;not null" json:"username"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
}

func (Admin) TableName() string {
	return "admins"
}
