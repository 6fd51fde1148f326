package core

import "github.com/gin-gonic/gin"

func RegisterRoutes(router gin.IRoutes, h Handlers) {
	router.GET("/healthz", h.GetHealth)
	router.GET("/reglas", h.GetReglas)
	router.POST("/eventos", h.PostEventos)
	router.POST("/eventos/validar", h.PostValidarEvento)
	router.GET("/eventos/:id", h.GetEventos)
	router.POST("/inscripciones", h.PostInscripciones)
}
