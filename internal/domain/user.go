package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Permission bits, combined into Role.Permissions.
const (
	PermissionView       = 0x01
	PermissionCreate     = 0x02
	PermissionEdit       = 0x04
	PermissionDelete     = 0x08
	PermissionAdminister = 0x80
)

type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:64;uniqueIndex"`
	Default     bool      `gorm:"default:false;index"`
	Permissions int
}

type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email          string     `gorm:"size:128;not null;uniqueIndex"`
	PasswordHash   string     `gorm:"size:128"`
	Confirmed      bool       `gorm:"default:false"`
	StockMailAlert bool       `gorm:"default:false"`
	RoleID         *uuid.UUID `gorm:"type:uuid"`
	Role           *Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) Can(permissions int) bool {
	return u.Role != nil && u.Role.Permissions&permissions == permissions
}

func (u *User) IsAdministrator() bool { return u.Can(PermissionAdminister) }

type UserRepo interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	// StockAlertEmails are the administrators that opted into low-stock
	// mail alerts.
	StockAlertEmails(ctx context.Context) ([]string, error)
}
