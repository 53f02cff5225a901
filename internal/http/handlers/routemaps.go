package handlers

import (
	"net/http"

	"busgo/internal/domain/models"
	"busgo/internal/http/middleware"
	"busgo/internal/repositories"
	"busgo/internal/services"

	"github.com/gin-gonic/gin"
)

// RouteMapHandler exposes admin route-map CRUD plus passenger reads.
type RouteMapHandler struct {
	Routes repositories.RouteMapRepository
	Users  repositories.UserRepository
}

func (h RouteMapHandler) svc(c *gin.Context) services.RouteMapService {
	return services.RouteMapService{
		RouteRepo: h.Routes,
		UserRepo:  h.Users,
		RequestID: middleware.GetRequestID(c),
	}
}

// POST /api/v1/bus-route/add  (ADMIN)
func (h RouteMapHandler) Add(c *gin.Context) {
	var req models.RouteMap
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.svc(c).Create(req); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusCreated, "Route map created", gin.H{"routeID": req.RouteID})
}

// GET /api/v1/bus-route/get-stops/:routeID
// Non-admin callers receive the route without its fare chart.
func (h RouteMapHandler) GetStops(c *gin.Context) {
	rc, ok := MustPrincipal(c)
	if !ok {
		return
	}
	m, err := h.svc(c).Get(rc, c.Param("routeID"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "Route map retrieved", m)
}

// GET /api/v1/bus-route/get-buses/:routeID
func (h RouteMapHandler) GetBuses(c *gin.Context) {
	conductors, err := h.svc(c).BusesByRoute(c.Param("routeID"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "Buses retrieved", conductors)
}

// PUT /api/v1/bus-route/update/:routeID  (ADMIN)
func (h RouteMapHandler) Update(c *gin.Context) {
	var req models.RouteMap
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.svc(c).Update(c.Param("routeID"), req); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "Route map updated", gin.H{})
}

// DELETE /api/v1/bus-route/delete/:routeID  (ADMIN)
func (h RouteMapHandler) Delete(c *gin.Context) {
	if err := h.svc(c).Delete(c.Param("routeID")); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "Route map deleted successfully", gin.H{})
}
