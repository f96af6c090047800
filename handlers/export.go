package handlers

import (
	"net/http"

	"flightchat/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type ExportRequest struct {
	Origin      string                     `json:"origin" binding:"required"`
	Destination string                     `json:"destination" binding:"required"`
	Date        string                     `json:"date" binding:"required"`
	Offers      []services.NormalizedOffer `json:"offers" binding:"required"`
}

// ExportHandler renders the offers a user was shown into a PDF attachment.
// Stateless: the client posts back the offers from its last chat turn, so
// nothing has to be stored server-side.
func ExportHandler(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if len(req.Offers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No offers to export"})
		return
	}

	pdfBytes, err := services.GenerateOfferSheet(services.OfferSheet{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.Date,
		Offers:        req.Offers,
	})
	if err != nil {
		log.Errorf("PDF generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=flightchat-offers.pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
