package common

import (
	"context"
	"log"
	"tourbook/src/domain"
	"tourbook/src/models"
	"tourbook/src/types"
)

type Registrar interface {
	Register(ctx context.Context, username, email, password string) (string, *models.UserRecord, error)
}

// RegisterUser creates a CMS account once the password confirmation
// matches.
func RegisterUser(ctx context.Context, r Registrar, body *types.RegisterUserRequestBody) (*models.UserRecord, error) {
	if body.Password != body.ConfirmPassword {
		return nil, domain.ValidationError{Field: "confirmPassword", Msg: "Passwords do not match"}
	}
	_, user, err := r.Register(ctx, body.Username, body.Email, body.Password)
	if err != nil {
		log.Printf("[auth] Registration of %s failed: %s\n", body.Username, err.Error())
		return nil, err
	}
	log.Printf("[auth] Registered %s (%d)\n", user.Username, user.ID)
	return user, nil
}
