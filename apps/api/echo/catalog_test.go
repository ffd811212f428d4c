package echoapi_test

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/eduplaybd/eduplay/core/catalog"
	"github.com/eduplaybd/eduplay/core/user"
)

func Test_adminCatalog(t *testing.T) {
	admin := createUser(t, "Root", "root@test.cd", "LordOfTheRings", user.RoleAdmin)
	studentUsr := createUser(t, "Pupil", "pupil@test.cd", "LordOfTheRings", user.RoleStudent)
	adminToken := getToken(t, admin)
	studentToken := getToken(t, studentUsr)

	t.Run("anonymous is rejected", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/admin/grades")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("student is forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/admin/grades", studentToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusForbidden)
		}
	})

	var grade catalog.Grade
	t.Run("create grade", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/admin/grades", adminToken, []byte(`{"name": "Grade 1"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &grade); err != nil {
			t.Fatalf("unmarshalling grade: %v", err)
		}
		if grade.ID == 0 || grade.Name != "Grade 1" {
			t.Errorf("failed! grade = %+v", grade)
		}
	})

	t.Run("duplicate grade name fails", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/admin/grades", adminToken, []byte(`{"name": "grade 1"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusBadRequest)
		}
	})

	var subject catalog.Subject
	t.Run("create subject", func(t *testing.T) {
		body := marchallObj(t, catalog.NewSubject{Name: "Mathematics", Description: "Numbers and shapes", GradeID: grade.ID})
		req, rec := newAuthRequest(http.MethodPost, "/v1/admin/subjects", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &subject); err != nil {
			t.Fatalf("unmarshalling subject: %v", err)
		}
	})

	var chapter catalog.Chapter
	t.Run("create chapter", func(t *testing.T) {
		body := marchallObj(t, catalog.NewChapter{Name: "Counting", GradeID: grade.ID, SubjectID: subject.ID})
		req, rec := newAuthRequest(http.MethodPost, "/v1/admin/chapters", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &chapter); err != nil {
			t.Fatalf("unmarshalling chapter: %v", err)
		}
	})

	t.Run("chapter under foreign grade fails", func(t *testing.T) {
		body := marchallObj(t, catalog.NewChapter{Name: "Orphan", GradeID: grade.ID + 999, SubjectID: subject.ID})
		req, rec := newAuthRequest(http.MethodPost, "/v1/admin/chapters", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; wantCode %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("public subjects by raw route token", func(t *testing.T) {
		tests := []httpTest{
			{
				name:     "messy token resolves",
				path:     "/v1/classes/Grade-1:1/subjects",
				wantCode: http.StatusOK,
				wantData: marchallList(t, subject),
			},
			{
				name:     "unknown grade yields empty list",
				path:     "/v1/classes/kindergarten/subjects",
				wantCode: http.StatusOK,
				wantData: []byte(`[]`),
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req, rec := newRequest(http.MethodGet, tt.path)
				app.ServeHTTP(rec, req)
				checkCodeAndData(t, tt, rec)
			})
		}
	})

	t.Run("delete grade cascades bottom-up", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/admin/grades/"+strconv.Itoa(grade.ID), adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var res catalog.CascadeResult
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling cascade result: %v", err)
		}
		if res.GradeID != grade.ID {
			t.Errorf("failed! grade_id = %v; want %v", res.GradeID, grade.ID)
		}
		if len(res.SubjectIDs) != 1 || res.SubjectIDs[0] != subject.ID {
			t.Errorf("failed! subject_ids = %v; want [%v]", res.SubjectIDs, subject.ID)
		}
		if len(res.ChapterIDs) != 1 || res.ChapterIDs[0] != chapter.ID {
			t.Errorf("failed! chapter_ids = %v; want [%v]", res.ChapterIDs, chapter.ID)
		}
		if !res.ContentsDeleted {
			t.Error("failed! contents_deleted = false; want true")
		}
	})

	t.Run("deleted grade is gone", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/classes/grade-1/subjects")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}, rec)
	})
}
