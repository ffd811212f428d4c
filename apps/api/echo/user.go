package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/user"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (srv *Server) userSignup(ctx echo.Context) error {
	var nu user.NewUser
	if err := ctx.Bind(&nu); err != nil {
		return errors.Wrap(err, "binding new user")
	}
	// self-registration only creates students
	nu.Roles = []string{user.RoleStudent}
	if err := nu.Validate(srv.deps.UserSvc); err != nil {
		return err
	}

	usr, err := srv.deps.UserSvc.Create(ctx.Request().Context(), nu)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}

	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"user": usr, "token": token})
}

func (srv *Server) userLogin(ctx echo.Context) error {
	var req loginRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding login request")
	}
	if err := core.Validate.Struct(&req); err != nil {
		return err
	}

	claims, err := authenticate(ctx.Request().Context(), req.Email, req.Password, srv.deps.UserSvc)
	if err != nil {
		return err
	}

	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (srv *Server) userTokenRefresh(ctx echo.Context) error {
	token, err := refreshToken(ctx, srv.deps.UserSvc)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (srv *Server) userPasswordReset(ctx echo.Context) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding password reset request")
	}
	if err := core.Validate.Struct(&req); err != nil {
		return err
	}

	// a mail is only sent when the account exists; the response never tells
	if err := srv.deps.UserSvc.RequestPasswordReset(ctx.Request().Context(), req.Email); err != nil && err != user.ErrNotFound {
		return errors.Wrap(err, "requesting password reset")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"message": "If the email address supplied is known, a password reset link has been sent to it.",
	})
}

func (srv *Server) userPasswordResetConfirm(ctx echo.Context) error {
	var rp user.ResetUserPassword
	if err := ctx.Bind(&rp); err != nil {
		return errors.Wrap(err, "binding password reset confirmation")
	}
	if err := rp.Validate(); err != nil {
		return err
	}

	if err := srv.deps.UserSvc.ResetPassword(ctx.Request().Context(), rp); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Password has been reset successfully."})
}

func (srv *Server) userMe(ctx echo.Context) error {
	usr, err := getContextUser(ctx, srv.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (srv *Server) adminUserList(ctx echo.Context) error {
	filter := new(user.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding user filter")
	}
	filter.Clean()
	ordering := bindOrdering(ctx, "name", "email", "created_at", "updated_at")

	users, err := srv.deps.UserSvc.Query(ctx.Request().Context(), filter, ordering)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (srv *Server) adminUserDetail(ctx echo.Context) error {
	usr, err := srv.deps.UserSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (srv *Server) adminUserUpdate(ctx echo.Context) error {
	rctx := ctx.Request().Context()
	usr, err := srv.deps.UserSvc.GetByID(rctx, ctx.Param("id"))
	if err != nil {
		return err
	}

	uu := new(user.UpdateUser)
	if err := ctx.Bind(uu); err != nil {
		return errors.Wrap(err, "binding user update")
	}
	if err := uu.Validate(usr, srv.deps.UserSvc); err != nil {
		return err
	}

	usr, err = srv.deps.UserSvc.Update(rctx, usr.ID, *uu)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (srv *Server) adminUserDelete(ctx echo.Context) error {
	if err := srv.deps.UserSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}
