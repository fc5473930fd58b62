package http

import (
	"github.com/gin-gonic/gin"

	mediaport "github.com/Ishwar-meena/whatsappchat/internal/infrastructure/media/port"
	"github.com/Ishwar-meena/whatsappchat/internal/pkg/status/application/usecase"
	"github.com/Ishwar-meena/whatsappchat/internal/pkg/status/presentation/controller"
)

// Dependencies carries the wired use cases the status routes need.
type Dependencies struct {
	Uploader mediaport.Uploader
	Create   *usecase.CreateStatusUseCase
	List     *usecase.ListStatusesUseCase
	View     *usecase.ViewStatusUseCase
	Delete   *usecase.DeleteStatusUseCase
}

// RegisterRoutes registers status endpoints under the given router group.
// The group is expected to already carry the identity middleware.
func RegisterRoutes(g *gin.RouterGroup, deps Dependencies) {
	createCtl := controller.NewCreateStatusController(deps.Create, deps.Uploader)
	listCtl := controller.NewGetStatusesController(deps.List)
	viewCtl := controller.NewViewStatusController(deps.View)
	deleteCtl := controller.NewDeleteStatusController(deps.Delete)

	g.POST("/statuses", createCtl.Handle())
	g.GET("/statuses", listCtl.Handle())
	g.POST("/statuses/:statusId/view", viewCtl.Handle())
	g.DELETE("/statuses/:statusId", deleteCtl.Handle())
}
