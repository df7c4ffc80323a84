package router

import "github.com/gin-gonic/gin"

// Module is one routable feature area (auth, profile, debug). A module
// attaches its routes and route-local middleware to the shared group;
// cross-cutting middleware lives on the engine, not here.
type Module interface {
	Register(rg *gin.RouterGroup)
}
