package dbschema

import (
	"time"

	"gorm.io/gorm"

	"llm-gateway/internal/domain/user"
)

// User is the persisted credential row. Identity mirrors the original
// partition-key/row-key scheme: the partition key is a fixed value from the
// catalog's userStorage section and the username is unique within it.
type User struct {
	PartitionKey string `gorm:"type:varchar(64);not null;uniqueIndex:ux_users_partition_username"`
	Username     string `gorm:"type:varchar(150);not null;uniqueIndex:ux_users_partition_username"`
	Password     string `gorm:"type:varchar(512);not null"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Migrate prepares the user table under its configured name.
func Migrate(db *gorm.DB, tableName string) error {
	return db.Table(tableName).AutoMigrate(&User{})
}

// NewSchemaUser converts a domain user into a schema instance.
func NewSchemaUser(u *user.User, partitionKey string) *User {
	if u == nil {
		return nil
	}

	return &User{
		PartitionKey: partitionKey,
		Username:     u.Username,
		Password:     u.Password,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// EtoD converts a schema user back to the domain representation.
func (u *User) EtoD() *user.User {
	if u == nil {
		return nil
	}

	return &user.User{
		Username:  u.Username,
		Password:  u.Password,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
