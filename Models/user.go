package Models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	gorm.Model
	Username  string     `json:"username" gorm:"uniqueIndex;not null"`
	Password  string     `json:"-" gorm:"not null"`
	Name      string     `json:"nama" gorm:"not null"`
	Role      string     `json:"role" gorm:"default:user"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	IsActive  bool       `json:"isActive" gorm:"default:true"`
	LastLogin *time.Time `json:"lastLogin"`
}

// HashPassword computes the legacy digest: hex(sha256(password + secret)).
// There is no per-user salt; rotating the secret invalidates every stored hash.
// Kept for compatibility with existing user rows.
func HashPassword(password, secret string) string {
	sum := sha256.Sum256([]byte(password + secret))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether password matches the stored digest.
func VerifyPassword(password, hash, secret string) bool {
	return HashPassword(password, secret) == hash
}
