package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eduplaybd/eduplay/core"
)

// bindOrdering parses the "ordering" query param into DB ordering rules.
// A field prefixed with "-" sorts in descending order, eg. ?ordering=-created_at,name
func bindOrdering(ctx echo.Context, validFields ...string) []core.DBOrdering {
	param := ctx.QueryParam("ordering")
	if param == "" {
		return nil
	}

	isValid := func(fld string) bool {
		for _, valid := range validFields {
			if fld == valid {
				return true
			}
		}
		return false
	}

	var ordering []core.DBOrdering
	for _, fld := range strings.Split(param, ",") {
		fld = strings.TrimSpace(fld)
		desc := strings.HasPrefix(fld, "-")
		fld = strings.TrimPrefix(fld, "-")
		if !isValid(fld) {
			continue
		}
		ordering = append(ordering, core.DBOrdering{Field: fld, Ascending: !desc})
	}
	return ordering
}
