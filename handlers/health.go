package handlers

import (
	"net/http"

	"flightchat/services"

	"github.com/gin-gonic/gin"
)

func HealthHandler(c *gin.Context) {
	flightAPI := "ok"
	if services.GetAmadeusClient() == nil {
		flightAPI = "not initialized"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"service":    "FlightChat API",
		"flight_api": flightAPI,
	})
}
