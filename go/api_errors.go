package repairshopserver

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/repairshop-api/internal/shared/errors"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondError answers transport-level failures with RFC 7807 responses.
// Errors that already are problems keep their own status.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	apierrors.RespondError(c, err, status)
}

// respondEnvelope writes the envelope with its own status code, converting the
// payload to its HTTP representation on success.
func respondEnvelope[T, U any](c *gin.Context, res response.Response[T], convert func(T) U) {
	var data U
	if res.IsSuccess {
		data = convert(res.Data)
	}
	c.JSON(res.StatusCode, response.New(data, res.StatusCode, res.Message))
}

// respondPDF streams a ticket. Failures fall back to the JSON envelope.
func respondPDF[T any](c *gin.Context, res response.Response[T], pdf func(T) []byte, filename string) {
	if !res.IsSuccess {
		c.JSON(res.StatusCode, response.Fail[any](res.StatusCode, res.Message))
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(res.StatusCode, "application/pdf", pdf(res.Data))
}

func identity[T any](v T) T { return v }
