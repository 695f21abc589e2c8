package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"armenu-api/apperr"
	"armenu-api/backend"
	"armenu-api/catalog"
	"armenu-api/lifecycle"
	"armenu-api/menu"
	"armenu-api/middleware"
	"armenu-api/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler serves the HTTP API on top of the application services
type Handler struct {
	identity      backend.Identity
	auth          *middleware.Auth
	catalog       *catalog.Catalog
	lifecycle     *lifecycle.Manager
	selections    *session.Selections
	menu          *menu.Service
	publicBaseURL string
	maxUpload     int64
}

type Options struct {
	Identity      backend.Identity
	Auth          *middleware.Auth
	Catalog       *catalog.Catalog
	Lifecycle     *lifecycle.Manager
	Selections    *session.Selections
	Menu          *menu.Service
	PublicBaseURL string
	MaxUploadMB   int
}

func New(opts Options) *Handler {
	return &Handler{
		identity:      opts.Identity,
		auth:          opts.Auth,
		catalog:       opts.Catalog,
		lifecycle:     opts.Lifecycle,
		selections:    opts.Selections,
		menu:          opts.Menu,
		publicBaseURL: opts.PublicBaseURL,
		maxUpload:     int64(opts.MaxUploadMB) << 20,
	}
}

// respondError writes err with the status of its kind. Backend causes are
// logged, never returned to the client.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("backend failure")
	}
	c.JSON(status, gin.H{"error": apperr.Message(err), "kind": apperr.KindOf(err)})
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperr.Validation("invalid request body: "+err.Error()))
		return false
	}
	return true
}

// limitBody caps multipart bodies to the configured upload size
func (h *Handler) limitBody(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}
}

// formFile opens an optional multipart file. The returned closer is never nil.
func formFile(c *gin.Context, field string) (*catalog.Upload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, noop, apperr.Validation("upload is too large")
		}
		return nil, noop, apperr.Validation(field + " could not be read")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, apperr.Backend("failed to open upload", err)
	}
	return &catalog.Upload{Filename: fh.Filename, Reader: f}, closer(f), nil
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}
