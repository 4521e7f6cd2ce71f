package repairshopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"github.com/Apurer/repairshop-api/internal/shared/pagination"
)

const (
	defaultPageNumber = 1
	defaultPageSize   = 25
)

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return 0, false
	}
	return id, true
}

// parsePage reads pageNumber and pageSize, defaulting missing values. Range
// checks are left to the application layer so they surface as envelopes.
func parsePage(c *gin.Context) (pagination.Request, bool) {
	query := c.Request.URL.Query()
	number := defaultPageNumber
	size := defaultPageSize
	if err := runtime.BindQueryParameter("form", true, false, "pageNumber", query, &number); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return pagination.Request{}, false
	}
	if err := runtime.BindQueryParameter("form", true, false, "pageSize", query, &size); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return pagination.Request{}, false
	}
	return pagination.Request{Number: number, Size: size}, true
}
