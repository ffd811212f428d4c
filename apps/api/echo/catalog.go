package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduplaybd/eduplay/core/catalog"
)

// classSubjectList lists the subjects of the grade behind a raw route token,
// eg. /classes/grade-1:1/subjects or /classes/nursery/subjects.
// An unresolvable grade yields an empty list, not an error.
func (srv *Server) classSubjectList(ctx echo.Context) error {
	subjects, err := srv.deps.CatalogSvc.SubjectsForClass(ctx.Request().Context(), ctx.Param("standard"))
	if err != nil {
		if err == catalog.ErrNotFound {
			return ctx.JSON(http.StatusOK, []catalog.Subject{})
		}
		return errors.Wrap(err, "listing subjects for class")
	}
	if subjects == nil {
		subjects = []catalog.Subject{}
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (srv *Server) adminGradeList(ctx echo.Context) error {
	grades, err := srv.deps.CatalogSvc.QueryGrades(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (srv *Server) adminGradeCreate(ctx echo.Context) error {
	var ng catalog.NewGrade
	if err := ctx.Bind(&ng); err != nil {
		return errors.Wrap(err, "binding new grade")
	}
	if err := ng.Validate(srv.deps.CatalogSvc); err != nil {
		return err
	}

	grade, err := srv.deps.CatalogSvc.CreateGrade(ctx.Request().Context(), ng)
	if err != nil {
		return errors.Wrap(err, "creating grade")
	}
	return ctx.JSON(http.StatusCreated, grade)
}

func (srv *Server) adminGradeDelete(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	res, err := srv.deps.CatalogSvc.DeleteGrade(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHTTPNotFound
		}
		// partial cascades still report what was targeted
		return ctx.JSON(http.StatusMultiStatus, res)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (srv *Server) adminSubjectList(ctx echo.Context) error {
	if param := ctx.QueryParam("grade_id"); param != "" {
		gradeID, err := strconv.Atoi(param)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "grade_id must be an integer")
		}
		subjects, err := srv.deps.CatalogSvc.QuerySubjectsByGrade(ctx.Request().Context(), gradeID)
		if err != nil {
			return errors.Wrap(err, "querying subjects by grade")
		}
		return ctx.JSON(http.StatusOK, subjects)
	}

	subjects, err := srv.deps.CatalogSvc.QuerySubjects(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, subjects)
}

func (srv *Server) adminSubjectCreate(ctx echo.Context) error {
	var ns catalog.NewSubject
	if err := ctx.Bind(&ns); err != nil {
		return errors.Wrap(err, "binding new subject")
	}
	if err := ns.Validate(srv.deps.CatalogSvc); err != nil {
		return err
	}

	subject, err := srv.deps.CatalogSvc.CreateSubject(ctx.Request().Context(), ns)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	return ctx.JSON(http.StatusCreated, subject)
}

func (srv *Server) adminSubjectDelete(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	res, err := srv.deps.CatalogSvc.DeleteSubject(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHTTPNotFound
		}
		return ctx.JSON(http.StatusMultiStatus, res)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (srv *Server) adminChapterList(ctx echo.Context) error {
	if param := ctx.QueryParam("subject_id"); param != "" {
		subjectID, err := strconv.Atoi(param)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "subject_id must be an integer")
		}
		chapters, err := srv.deps.CatalogSvc.QueryChaptersBySubject(ctx.Request().Context(), subjectID)
		if err != nil {
			return errors.Wrap(err, "querying chapters by subject")
		}
		return ctx.JSON(http.StatusOK, chapters)
	}

	chapters, err := srv.deps.CatalogSvc.QueryChapters(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying chapters")
	}
	return ctx.JSON(http.StatusOK, chapters)
}

func (srv *Server) adminChapterCreate(ctx echo.Context) error {
	var nc catalog.NewChapter
	if err := ctx.Bind(&nc); err != nil {
		return errors.Wrap(err, "binding new chapter")
	}
	if err := nc.Validate(srv.deps.CatalogSvc); err != nil {
		return err
	}

	chapter, err := srv.deps.CatalogSvc.CreateChapter(ctx.Request().Context(), nc)
	if err != nil {
		return errors.Wrap(err, "creating chapter")
	}
	return ctx.JSON(http.StatusCreated, chapter)
}

func (srv *Server) adminChapterDelete(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	res, err := srv.deps.CatalogSvc.DeleteChapter(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == catalog.ErrNotFound {
			return errHTTPNotFound
		}
		return ctx.JSON(http.StatusMultiStatus, res)
	}
	return ctx.JSON(http.StatusOK, res)
}

func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
	}
	return id, nil
}
