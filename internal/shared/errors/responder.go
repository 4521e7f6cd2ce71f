package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type of problem documents.
const ContentTypeProblemJSON = "application/problem+json"

// Responder writes problem documents on a gin context.
type Responder struct {
	// BaseURI is prefixed to relative problem types.
	BaseURI string
}

func NewResponder(baseURI string) *Responder {
	return &Responder{BaseURI: baseURI}
}

// DefaultResponder keeps problem types relative.
var DefaultResponder = NewResponder("")

// Respond aborts the request with the given problem.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError unwraps a ProblemDetail from err, or builds one for fallback.
func (r *Responder) RespondError(c *gin.Context, err error, fallback int) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.Respond(c, ForStatus(fallback, err.Error()))
}

// Respond uses DefaultResponder.
func Respond(c *gin.Context, problem ProblemDetail) {
	DefaultResponder.Respond(c, problem)
}

// RespondError uses DefaultResponder.
func RespondError(c *gin.Context, err error, fallback int) {
	DefaultResponder.RespondError(c, err, fallback)
}
