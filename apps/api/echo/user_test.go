package echoapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/eduplaybd/eduplay/core/user"
)

func Test_userSignup(t *testing.T) {
	tests := []httpTest{
		{
			name:     "empty body fails",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "password mismatch fails",
			body:     []byte(`{"name": "Anika", "email": "anika@test.cd", "password": "LordOfTheRings", "password_confirm": "LordOfTheRingz"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "valid signup creates a student",
			body:     []byte(`{"name": "Anika", "email": "anika@test.cd", "password": "LordOfTheRings", "password_confirm": "LordOfTheRings"}`),
			wantCode: http.StatusCreated,
		},
		{
			name:     "duplicate email fails",
			body:     []byte(`{"name": "Anika2", "email": "anika@test.cd", "password": "LordOfTheRings", "password_confirm": "LordOfTheRings"}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/signup", tt.body)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode != http.StatusCreated {
				return
			}

			var res struct {
				User  user.User `json:"user"`
				Token string    `json:"token"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("unmarshalling response: %v", err)
			}
			if res.Token == "" {
				t.Error("failed! no token returned")
			}
			if !res.User.IsStudent() {
				t.Errorf("failed! roles = %v; want student only", res.User.Roles)
			}
			if res.User.IsAdmin() {
				t.Errorf("failed! self-registration must not grant admin; roles = %v", res.User.Roles)
			}
		})
	}
}

func Test_userLogin(t *testing.T) {
	usr := createUser(t, "Kaito", "kaito@test.cd", "LordOfTheRings", user.RoleStudent)

	inactive := createUser(t, "Sleepy", "sleepy@test.cd", "LordOfTheRings", user.RoleStudent)
	no := false
	if _, err := usrSvc.Update(context.Background(), inactive.ID, user.UpdateUser{IsActive: &no}); err != nil {
		t.Fatalf("deactivating user: %v", err)
	}

	tests := []httpTest{
		{
			name:     "unknown email fails",
			body:     []byte(`{"email": "ghost@test.cd", "password": "LordOfTheRings"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "No active account found with the given credentials."}),
		},
		{
			name:     "wrong password fails",
			body:     []byte(`{"email": "kaito@test.cd", "password": "LordOfTheRingz"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "No active account found with the given credentials."}),
		},
		{
			name:     "deactivated account fails",
			body:     []byte(`{"email": "sleepy@test.cd", "password": "LordOfTheRings"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "Account deactivated."}),
		},
		{
			name:     "valid credentials pass",
			body:     []byte(`{"email": "kaito@test.cd", "password": "LordOfTheRings"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var res struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if res.Token == "" {
					t.Error("failed! no token returned")
				}
			}
		})
	}

	t.Run("login records lastLogin", func(t *testing.T) {
		refreshed, err := usrSvc.GetByID(context.Background(), usr.ID)
		if err != nil {
			t.Fatalf("GetByID(): %v", err)
		}
		if refreshed.LastLogin.IsZero() {
			t.Error("failed! lastLogin not set")
		}
	})
}

func Test_userMe(t *testing.T) {
	usr := createUser(t, "Mira", "mira@test.cd", "LordOfTheRings", user.RoleStudent)

	tests := []httpTest{
		{
			name:     "anonymous fails",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "authenticated passes",
			token:    getToken(t, usr),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, usr),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users/me", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userTokenRefresh(t *testing.T) {
	usr := createUser(t, "Rafi", "rafi@test.cd", "LordOfTheRings", user.RoleStudent)

	t.Run("anonymous fails", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/token-refresh")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("valid token refreshes", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, usr))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var res struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if res.Token == "" {
			t.Error("failed! no token returned")
		}
	})
}

func Test_userPasswordReset(t *testing.T) {
	createUser(t, "Tania", "tania@test.cd", "LordOfTheRings", user.RoleStudent)

	// the response never reveals whether the account exists
	wantData := marchallObj(t, map[string]string{
		"message": "If the email address supplied is known, a password reset link has been sent to it.",
	})

	tests := []httpTest{
		{
			name:     "invalid email fails",
			body:     []byte(`{"email": "not-an-email"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown account looks identical",
			body:     []byte(`{"email": "ghost@test.cd"}`),
			wantCode: http.StatusOK,
			wantData: wantData,
		},
		{
			name:     "known account passes",
			body:     []byte(`{"email": "tania@test.cd"}`),
			wantCode: http.StatusOK,
			wantData: wantData,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/password-reset", tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userPasswordResetConfirm(t *testing.T) {
	usr := createUser(t, "Nilo", "nilo@test.cd", "LordOfTheRings", user.RoleStudent)

	uid := user.EncodeUID(usr)
	token, err := user.MakeToken(usr)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}

	tests := []httpTest{
		{
			name:     "missing fields fail",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad token fails",
			body:     marchallObj(t, user.ResetUserPassword{UID: uid, Token: "bad-token", Password: "TheTwoTowers", PasswordConfirm: "TheTwoTowers"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "valid token resets password",
			body:     marchallObj(t, user.ResetUserPassword{UID: uid, Token: token, Password: "TheTwoTowers", PasswordConfirm: "TheTwoTowers"}),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/password-reset-confirm", tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}

	t.Run("new password works", func(t *testing.T) {
		refreshed, err := usrSvc.GetByID(context.Background(), usr.ID)
		if err != nil {
			t.Fatalf("GetByID(): %v", err)
		}
		if err = refreshed.CheckPassword("TheTwoTowers"); err != nil {
			t.Errorf("failed! new password rejected: %v", err)
		}
	})
}

func Test_adminUsers(t *testing.T) {
	admin := createUser(t, "Root2", "root2@test.cd", "LordOfTheRings", user.RoleAdmin)
	target := createUser(t, "Tania", "tania@test.cd", "LordOfTheRings", user.RoleStudent)
	adminToken := getToken(t, admin)
	studentToken := getToken(t, target)

	t.Run("anonymous is rejected", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/admin/users")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("student is forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/admin/users", studentToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("list filters by search", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/admin/users?search=tania", adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, target)}, rec)
	})

	t.Run("detail", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/admin/users/"+target.ID, adminToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, target)}, rec)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/admin/users/nope", adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("update renames and deactivates", func(t *testing.T) {
		body := []byte(`{"name": "Tania K", "is_active": false}`)
		req, rec := newAuthRequest(http.MethodPut, "/v1/admin/users/"+target.ID, adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var updated user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("unmarshalling user: %v", err)
		}
		if updated.Name != "Tania K" || updated.IsActive {
			t.Errorf("failed! user = %+v", updated)
		}
		if updated.Email != target.Email {
			t.Errorf("failed! email changed: %v", updated.Email)
		}
	})

	t.Run("update rejects a taken email", func(t *testing.T) {
		body := []byte(`{"email": "root2@test.cd"}`)
		req, rec := newAuthRequest(http.MethodPut, "/v1/admin/users/"+target.ID, adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("delete", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/admin/users/"+target.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		req, rec = newAuthRequest(http.MethodGet, "/v1/admin/users/"+target.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusNotFound)
		}
	})
}
