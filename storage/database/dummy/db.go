// Package dummydb provides in-memory repositories for tests.
package dummydb

import (
	"sync"

	"github.com/eduplaybd/eduplay/core/catalog"
	"github.com/eduplaybd/eduplay/core/content"
	"github.com/eduplaybd/eduplay/core/student"
	"github.com/eduplaybd/eduplay/core/user"
)

type (
	DB struct {
		user    *userTable
		catalog *catalogTables
		content *contentTable
		student *profileTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	catalogTables struct {
		sync.RWMutex
		grades    map[int]*catalog.Grade
		subjects  map[int]*catalog.Subject
		chapters  map[int]*catalog.Chapter
		gradePK   int
		subjectPK int
		chapterPK int
	}

	contentTable struct {
		sync.RWMutex
		table map[string]*content.Content
	}

	profileTable struct {
		sync.RWMutex
		table map[string]*student.Profile
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		catalog: &catalogTables{
			grades:   make(map[int]*catalog.Grade),
			subjects: make(map[int]*catalog.Subject),
			chapters: make(map[int]*catalog.Chapter),
		},
		content: &contentTable{table: make(map[string]*content.Content)},
		student: &profileTable{table: make(map[string]*student.Profile)},
	}
	return db, nil
}
