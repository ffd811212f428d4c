package main

import (
	"context"

	"github.com/eduplaybd/eduplay/core/catalog"
)

var (
	seedGrades = []string{"Nursery", "Grade 1", "Grade 2", "Grade 3", "Grade 4", "Grade 5"}

	// starter subjects for the Nursery grade
	nurserySubjects = []string{"Football Math", "Basic English", "বেসিক বাংলা", "Colors & Shapes"}
)

// seedCatalog creates the default grades and the nursery starter subjects.
// Existing rows are left alone, so reruns are safe.
func (cli *commandLine) seedCatalog() error {
	ctx := context.Background()

	for _, name := range seedGrades {
		if _, err := cli.catalogRepo.GetGradeByName(ctx, name); err == nil {
			continue
		} else if err != catalog.ErrNotFound {
			return err
		}
		if _, err := cli.catalogRepo.CreateGrade(ctx, catalog.Grade{Name: name}); err != nil {
			return err
		}
		logger.Printf("created grade %q", name)
	}

	nursery, err := cli.catalogRepo.GetGradeByName(ctx, "Nursery")
	if err != nil {
		return err
	}
	existing, err := cli.catalogRepo.QuerySubjectsByGrade(ctx, nursery.ID)
	if err != nil {
		return err
	}
	byName := make(map[string]bool, len(existing))
	for _, subj := range existing {
		byName[subj.Name] = true
	}

	for _, name := range nurserySubjects {
		if byName[name] {
			continue
		}
		subj := catalog.Subject{Name: name, GradeID: nursery.ID}
		if _, err := cli.catalogRepo.CreateSubject(ctx, subj); err != nil {
			return err
		}
		logger.Printf("created subject %q in Nursery", name)
	}
	return nil
}
