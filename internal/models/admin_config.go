package models

// AdminPasswordKey is the admin_config row holding the operator shared secret.
const AdminPasswordKey = "admin_password"

type AdminConfig struct {
	Key   string `gorm:"primaryKey;type:text"`
	Value string `gorm:"not null"`
}

func (AdminConfig) TableName() string {
	return "admin_config"
}
