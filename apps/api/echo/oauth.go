package echoapi

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/eduplaybd/eduplay/core"
)

const (
	oauthStateCookie = "oauthstate"
	googleUserInfo   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var errOAuthFailed = echo.NewHTTPError(http.StatusUnauthorized, "Google sign-in failed.")

func googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     core.Conf.Google.ClientID,
		ClientSecret: core.Conf.Google.ClientSecret,
		RedirectURL:  core.Conf.Google.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

func (srv *Server) googleLogin(ctx echo.Context) error {
	state, err := randomState()
	if err != nil {
		return errors.Wrap(err, "generating oauth state")
	}
	ctx.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
	})

	url := googleOAuthConfig().AuthCodeURL(state)
	return ctx.Redirect(http.StatusTemporaryRedirect, url)
}

func (srv *Server) googleCallback(ctx echo.Context) error {
	cookie, err := ctx.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || ctx.QueryParam("state") != cookie.Value {
		return errOAuthFailed
	}

	reqCtx := ctx.Request().Context()
	conf := googleOAuthConfig()
	token, err := conf.Exchange(reqCtx, ctx.QueryParam("code"))
	if err != nil {
		return errOAuthFailed
	}

	resp, err := conf.Client(reqCtx, token).Get(googleUserInfo)
	if err != nil {
		return errors.Wrap(err, "fetching google user info")
	}
	defer resp.Body.Close()

	var userInfo struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return errors.Wrap(err, "decoding google user info")
	}
	if userInfo.Email == "" {
		return errOAuthFailed
	}

	usr, err := srv.deps.UserSvc.CreateFromOAuth(reqCtx, userInfo.Email, userInfo.Name)
	if err != nil {
		return errors.Wrap(err, "creating user from google account")
	}
	if !usr.IsActive {
		return errAccountDeactivated
	}
	if usr, err = srv.deps.UserSvc.SetLastLogin(reqCtx, usr); err != nil {
		return errors.Wrap(err, "setting lastLogin")
	}

	appToken, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, tokenResponse{Token: appToken})
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
