package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GreetingHandler sirve los endpoints públicos de bienvenida y salud.
type GreetingHandler struct{}

func NewGreetingHandler() *GreetingHandler {
	return &GreetingHandler{}
}

// Root maneja GET /.
func (h *GreetingHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "UrunGetir backend ayakta 🚀"})
}

// Hello maneja GET /hello.
func (h *GreetingHandler) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Merhaba Hakan! Backend çalışıyor 😎"})
}

// Health maneja GET /health.
func (h *GreetingHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
