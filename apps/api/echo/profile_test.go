package echoapi_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eduplaybd/eduplay/core/student"
	"github.com/eduplaybd/eduplay/core/user"
)

func Test_profile(t *testing.T) {
	usr := createUser(t, "Lina", "lina@test.cd", "LordOfTheRings", user.RoleStudent)
	token := getToken(t, usr)

	t.Run("anonymous is rejected", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/profile")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("unsaved profile starts from the account identity", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/profile", token)
		app.ServeHTTP(rec, req)
		wantData := marchallObj(t, student.Profile{ID: usr.ID, Name: usr.Name})
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: wantData}, rec)
	})

	t.Run("update profile", func(t *testing.T) {
		body := marchallObj(t, student.UpdateProfile{
			Name:    "Lina K",
			Age:     9,
			Grade:   "Grade 3",
			Address: "Dhaka",
			Gender:  "female",
			Bio:     "I like math",
		})
		req, rec := newAuthRequest(http.MethodPut, "/v1/profile", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var profile student.Profile
		if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
			t.Fatalf("unmarshalling profile: %v", err)
		}
		if profile.ID != usr.ID || profile.Name != "Lina K" || profile.Age != 9 {
			t.Errorf("failed! profile = %+v", profile)
		}
	})

	t.Run("invalid age fails", func(t *testing.T) {
		body := []byte(`{"name": "Lina K", "age": 42}`)
		req, rec := newAuthRequest(http.MethodPut, "/v1/profile", token, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("upload avatar", func(t *testing.T) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, err := mw.CreateFormFile("avatar", "me.png")
		if err != nil {
			t.Fatalf("CreateFormFile(): %v", err)
		}
		if _, err = fw.Write([]byte("fake-png-bytes")); err != nil {
			t.Fatalf("writing form file: %v", err)
		}
		if err = mw.Close(); err != nil {
			t.Fatalf("closing multipart writer: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/v1/profile/avatar", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var res struct {
			AvatarURL string `json:"avatar_url"`
		}
		if err = json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if res.AvatarURL == "" || !strings.Contains(res.AvatarURL, "avatars") {
			t.Errorf("failed! avatar_url = %q", res.AvatarURL)
		}
	})

	t.Run("avatar sticks to the profile", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/profile", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v", rec.Code)
		}
		var profile student.Profile
		if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
			t.Fatalf("unmarshalling profile: %v", err)
		}
		if profile.AvatarURL == "" {
			t.Error("failed! avatar_url not saved on profile")
		}
	})
}
