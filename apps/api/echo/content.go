package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduplaybd/eduplay/core/content"
)

// contentList lists published contents, optionally filtered by the raw
// class/subject values of the request. Raw values are passed through as-is;
// normalization happens in the content service.
func (srv *Server) contentList(ctx echo.Context) error {
	var filter content.ResolveFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding content filter")
	}
	filter.Clean()

	contents, err := srv.deps.ContentSvc.Resolve(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "resolving contents")
	}
	if contents == nil {
		contents = []content.Content{}
	}
	return ctx.JSON(http.StatusOK, contents)
}

func (srv *Server) contentDetail(ctx echo.Context) error {
	cnt, err := srv.deps.ContentSvc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == content.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "getting content")
	}
	return ctx.JSON(http.StatusOK, cnt)
}

func (srv *Server) adminContentList(ctx echo.Context) error {
	contents, err := srv.deps.ContentSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying contents")
	}
	if contents == nil {
		contents = []content.Content{}
	}
	return ctx.JSON(http.StatusOK, contents)
}

func (srv *Server) adminContentCreate(ctx echo.Context) error {
	var nc content.NewContent
	if err := ctx.Bind(&nc); err != nil {
		return errors.Wrap(err, "binding new content")
	}
	if err := nc.Validate(); err != nil {
		return err
	}

	cnt, err := srv.deps.ContentSvc.Create(ctx.Request().Context(), nc)
	if err != nil {
		return errors.Wrap(err, "creating content")
	}
	return ctx.JSON(http.StatusCreated, cnt)
}

func (srv *Server) adminContentUpdate(ctx echo.Context) error {
	var uc content.UpdateContent
	if err := ctx.Bind(&uc); err != nil {
		return errors.Wrap(err, "binding content update")
	}
	if err := uc.Validate(); err != nil {
		return err
	}

	cnt, err := srv.deps.ContentSvc.Update(ctx.Request().Context(), ctx.Param("id"), uc)
	if err != nil {
		if errors.Cause(err) == content.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "updating content")
	}
	return ctx.JSON(http.StatusOK, cnt)
}

func (srv *Server) adminContentDelete(ctx echo.Context) error {
	if err := srv.deps.ContentSvc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == content.ErrNotFound {
			return errHTTPNotFound
		}
		return errors.Wrap(err, "deleting content")
	}
	return ctx.NoContent(http.StatusNoContent)
}
