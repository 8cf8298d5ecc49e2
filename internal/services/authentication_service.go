package services

import (
	"context"
	"errors"
	"rentalChat/configs"
	"rentalChat/internal/errs"
	"rentalChat/internal/models"
	"rentalChat/internal/repositories"
	"rentalChat/internal/utils"
	"rentalChat/internal/validators"
	"time"
)

// AuthenticationService verifies bearer credentials and issues them on
// login. Account storage itself belongs to the user service.
type AuthenticationService struct {
	userRepo *repositories.UserRepository
	config   *configs.Config
}

func NewAuthenticationService(
	userRepo *repositories.UserRepository,
	config *configs.Config,
) *AuthenticationService {
	return &AuthenticationService{
		userRepo: userRepo,
		config:   config,
	}
}

func (as *AuthenticationService) jwtKey() []byte {
	return []byte(as.config.Viper.GetString("jwt.secret"))
}

// VerifyCredential resolves a raw or "Bearer " prefixed token to the
// identity it was issued for.
func (as *AuthenticationService) VerifyCredential(credential string) (models.Identity, error) {
	token := utils.ExtractBearerToken(credential)
	if token == "" {
		return models.Identity{}, errs.ErrUnauthorized
	}
	claims, err := utils.VerifyToken(token, as.jwtKey())
	if err != nil || claims.ID == 0 {
		return models.Identity{}, errs.ErrInvalidCredential
	}
	return models.Identity{ID: claims.ID, Role: claims.Role}, nil
}

func (as *AuthenticationService) IssueToken(user *models.User) (string, error) {
	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	expiration := time.Now().Add(time.Duration(as.config.Viper.GetInt("jwt.expiration_time")) * time.Second)
	return utils.CreateJwtToken(user.ID, email, user.Role, as.jwtKey(), expiration)
}

// Login accepts an email or phone number as identifier. Only approved,
// non-suspended accounts receive a token.
func (as *AuthenticationService) Login(ctx context.Context, loginData *models.LoginRequestBody) (*models.LoginResponse, error) {
	if validationErrs := validators.ValidateLogin(loginData); len(validationErrs) > 0 {
		return nil, errors.Join(validationErrs...)
	}

	user, err := as.userRepo.FindByIdentifier(ctx, loginData.Identifier, validators.IsEmailIdentifier(loginData.Identifier))
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, errs.ErrInvalidCredential
		}
		return nil, err
	}
	if err := utils.CompareHashAndPassword(user.PasswordHash, loginData.Password); err != nil {
		return nil, errs.ErrInvalidCredential
	}
	if !user.Approved {
		return nil, errs.ErrAccountNotApproved
	}
	if user.Status == models.UserStatusSuspended {
		return nil, errs.ErrAccountSuspended
	}

	token, err := as.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{
		User:  user.ToUserResponse(),
		Token: token,
	}, nil
}
