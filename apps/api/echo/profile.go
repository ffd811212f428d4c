package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduplaybd/eduplay/core/student"
)

func (srv *Server) profileDetail(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	profile, err := srv.deps.StudentSvc.Get(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) != student.ErrNotFound {
			return errors.Wrap(err, "getting profile")
		}
		// no profile saved yet, start from the account identity
		profile = student.Profile{ID: claims.Subject, Name: claims.Name}
	}
	return ctx.JSON(http.StatusOK, profile)
}

func (srv *Server) profileUpdate(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var up student.UpdateProfile
	if err = ctx.Bind(&up); err != nil {
		return errors.Wrap(err, "binding profile update")
	}
	if err = up.Validate(); err != nil {
		return err
	}

	profile, err := srv.deps.StudentSvc.Update(ctx.Request().Context(), claims.Subject, up)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}

func (srv *Server) profileAvatarUpload(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "an avatar file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded avatar")
	}
	defer src.Close()

	url, err := srv.deps.StudentSvc.SaveAvatar(ctx.Request().Context(), claims.Subject, fileHeader.Filename, src)
	if err != nil {
		return errors.Wrap(err, "saving avatar")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"avatar_url": url})
}
