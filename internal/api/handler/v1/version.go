package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/boardy-hostel/boardy-api/internal/domain"
)

type VersionService interface {
	Version() domain.VersionInfo
}

type VersionHandler struct {
	svc VersionService
}

func NewVersionHandler(svc VersionService) *VersionHandler {
	return &VersionHandler{
		svc: svc,
	}
}

// HandleGetVersion godoc
// @Summary      Report the running build
// @Tags         meta
// @Produce      json
// @Success      200  {object}  domain.VersionInfo
// @Router       /version [get]
func (h *VersionHandler) HandleGetVersion(ctx *gin.Context) {
	ctx.Header("Cache-Control", "no-store")
	ctx.JSON(http.StatusOK, h.svc.Version())
}
