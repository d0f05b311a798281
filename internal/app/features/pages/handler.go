// internal/app/features/pages/handler.go
package pages

import (
	uierrors "github.com/dalemusser/institutehub/internal/app/features/errors"
	"github.com/dalemusser/institutehub/internal/app/system/apiclient"
	"go.uber.org/zap"
)

// Handler owns the public content pages that list institute records.
type Handler struct {
	API    *apiclient.Transport
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs a Handler that reads through the anonymous API transport.
func NewHandler(api *apiclient.Transport, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		API:    api,
		Log:    logger,
		ErrLog: errLog,
	}
}
