package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token.")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "No active account found with the given credentials.")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusUnauthorized, "Account deactivated.")
	errRefreshExpired       = echo.NewHTTPError(http.StatusUnauthorized, "Refresh has expired.")
	errHTTPForbidden        = echo.NewHTTPError(http.StatusForbidden, "Permission denied.")
	errHTTPNotFound         = echo.NewHTTPError(http.StatusNotFound, "Resource not found.")
)

// newAppHTTPErrorHandler returns a custom HTTPErrorHandler.
// It responds to the client with the appropriate error status code and message,
// reports unexpected errors then signals the app to gracefully shut down on
// unrecoverable errors.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var res interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			res = echo.Map{"error": origErr.Message}

		case validator.ValidationErrors:
			code = http.StatusBadRequest
			fields := echo.Map{}
			for _, fErr := range origErr {
				fields[fErr.Field()] = fErr.Translate(core.Translator)
			}
			res = echo.Map{"error": "Invalid input.", "fields": fields}

		case *core.ValidationError:
			code = http.StatusBadRequest
			resMap := echo.Map{"error": origErr.Error()}
			if len(origErr.Fields) > 0 {
				fields := echo.Map{}
				for _, fErr := range origErr.Fields {
					fields[fErr.Field] = fErr.Error
				}
				resMap["fields"] = fields
			}
			res = resMap

		default:
			if origErr == user.ErrNotFound {
				code = errHTTPNotFound.Code
				res = echo.Map{"error": errHTTPNotFound.Message}
				break
			}

			code = http.StatusInternalServerError
			res = echo.Map{"error": http.StatusText(code)}

			// report unexpected error along with the current user if any
			args := []interface{}{err}
			if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
				args = append(args, usr)
			}
			logger.Error(err.Error(), args...)
		}

		// send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, res)
			}
			if err != nil {
				logger.Error(err.Error(), err)
			}
		}

		// shutdown gracefully on unrecoverable errors
		if ok := core.IsShutdown(err); ok {
			logger.Error("unrecoverable error, shutting down", err)
			signalShutdown()
		}
	}
}
