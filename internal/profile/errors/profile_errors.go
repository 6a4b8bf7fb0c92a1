package profileerrors

import (
	"net/http"

	"talent-ops/internal/shared/apperror"
)

var (
	ErrInvalidOrgID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid org id",
		http.StatusBadRequest,
	)
	ErrInvalidProfileID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid profile id",
		http.StatusBadRequest,
	)
	ErrProfileNotFound = apperror.New(
		apperror.CodeNotFound,
		"profile not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"a profile with this email already exists",
		http.StatusConflict,
	)
)
