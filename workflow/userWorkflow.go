package workflow

import (
	"context"

	"bitbucket.org/sitestack/sitebooks_backend/config"
	"bitbucket.org/sitestack/sitebooks_backend/models"
	"bitbucket.org/sitestack/sitebooks_backend/utils"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login verifies credentials and issues the token the auth middleware later
// turns back into a Principal.
func Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := models.GetUserByEmail(ctx, input.Email)
	if err != nil {
		return nil, utils.NewForbidden("invalid credentials")
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, utils.NewForbidden("account is disabled")
	}
	if err := utils.ComparePassword(user.PasswordHash, input.Password); err != nil {
		return nil, utils.NewForbidden("invalid credentials")
	}
	token, err := utils.JwtGenerate(user.ID, string(user.Role), user.Name)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

func CreateUser(ctx context.Context, p models.Principal, input models.NewUser) (*models.User, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := models.Authorize(p, scope, models.ActionManageUsers, nil); err != nil {
		return nil, err
	}
	if err := input.Validate(ctx); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, utils.NewConflict("email %q already registered", input.Email)
		}
		return nil, err
	}
	return &user, nil
}

func ListUsers(ctx context.Context, p models.Principal) ([]*models.User, error) {
	ctx, scope, err := models.ScopedContext(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := models.Authorize(p, scope, models.ActionManageUsers, nil); err != nil {
		return nil, err
	}
	return utils.FetchAllModelsWhere[models.User](ctx, "")
}
