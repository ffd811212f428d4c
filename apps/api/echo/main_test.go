package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	. "github.com/eduplaybd/eduplay/apps/api/echo"
	"github.com/eduplaybd/eduplay/core"
	"github.com/eduplaybd/eduplay/core/catalog"
	"github.com/eduplaybd/eduplay/core/content"
	"github.com/eduplaybd/eduplay/core/student"
	"github.com/eduplaybd/eduplay/core/user"
	emailsvc "github.com/eduplaybd/eduplay/services/email"
	logsvc "github.com/eduplaybd/eduplay/services/logger"
	dummydb "github.com/eduplaybd/eduplay/storage/database/dummy"
	"github.com/eduplaybd/eduplay/storage/files"
)

var (
	app *Server

	usrSvc     *user.Service
	catalogSvc *catalog.Service
	contentSvc *content.Service
	studentSvc *student.Service

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	mediaRoot, err := os.MkdirTemp("", "eduplay-media")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(mediaRoot)

	core.Conf = &core.Config{
		TestMode:                  true,
		AppName:                   "EduPlay",
		SecretKey:                 "poq9w8-t6eh1s#b%ai$*y2gz",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: time.Hour,
		},
		Media: core.MediaConfig{Root: mediaRoot, BaseURL: "/media"},
	}

	core.InitValidators()
	user.InitValidators()

	stdLogger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), core.Conf)
	stdLogger.Enable(false)
	core.ParseEmailTemplates(stdLogger)

	db, err := dummydb.Open()
	if err != nil {
		log.Fatal(err)
	}

	usrSvc = user.NewService(dummydb.NewUserRepository(db), emailsvc.NewConsoleServiceMock())
	contentRepo := dummydb.NewContentRepository(db)
	catalogSvc = catalog.NewService(dummydb.NewCatalogRepository(db), contentRepo)
	contentSvc = content.NewService(contentRepo, catalogSvc, stdLogger)
	studentSvc = student.NewService(dummydb.NewStudentRepository(db), files.NewLocalStore(core.Conf))

	app = NewServer(ServerDeps{
		Logger:     stdLogger,
		UserSvc:    usrSvc,
		CatalogSvc: catalogSvc,
		ContentSvc: contentSvc,
		StudentSvc: studentSvc,
	})

	os.Exit(m.Run())
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func createUser(t *testing.T, name, email, pwd string, roles ...string) user.User {
	t.Helper()
	usr, err := usrSvc.Create(context.Background(), user.NewUser{
		Name:            name,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Roles:           roles,
	})
	if err != nil {
		t.Fatalf("createUser(): %v", err)
	}
	return usr
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
