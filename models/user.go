package models

import (
	"context"
	"time"

	"bitbucket.org/sitestack/sitebooks_backend/config"
	"bitbucket.org/sitestack/sitebooks_backend/utils"
)

type User struct {
	ID           int       `gorm:"primary_key" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email" binding:"required"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"type:enum('admin','supervisor');not null" json:"role"`
	IsActive     *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role" binding:"required"`
}

func (input *NewUser) Validate(ctx context.Context) error {
	if !utils.IsValidEmail(input.Email) {
		return utils.NewInvalidInput("invalid email %q", input.Email)
	}
	if !input.Role.Valid() {
		return utils.NewInvalidInput("invalid role %q", input.Role)
	}
	if len(input.Password) < 8 {
		return utils.NewInvalidInput("password must be at least 8 characters")
	}
	count, err := utils.ResourceCountWhere[User](ctx, "email = ?", input.Email)
	if err != nil {
		return err
	}
	if count > 0 {
		return utils.NewConflict("email %q already registered", input.Email)
	}
	return nil
}

func GetUserByEmail(ctx context.Context, email string) (*User, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &user, nil
}
