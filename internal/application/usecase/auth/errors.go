package auth

import "github.com/khoahotran/devconnector/pkg/apperror"

var ErrUserExists = apperror.NewAppError(apperror.ErrInvalidInput, "User already exists", "email already registered", nil)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = apperror.NewAppError(apperror.ErrInvalidInput, "Invalid credentials", "email or password is incorrect", nil)
