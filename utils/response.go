package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-stream-overlay/schema"
)

func JSON200(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func JSON201(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func JSON400(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}

// JSON400Validation returns the field-level violation list so the client can
// map each message back onto its form field.
func JSON400Validation(c *gin.Context, err *schema.ValidationError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":      "validation failed",
		"violations": err.Violations,
	})
}

func JSON404(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": message})
}

func JSON500(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message})
}
