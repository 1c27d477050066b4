package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sleepstars/bayportbot/internal/models"
)

func main() {
	port := flag.String("port", "8001", "Port to run the server on")
	flag.Parse()

	if err := newRouter().Run(":" + *port); err != nil {
		log.Fatal(err)
	}
}

// newRouter builds a stand-in completion API that echoes the last user message
func newRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/v1/chat/completions", func(c *gin.Context) {
		var req models.CompletionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error(), "type": "invalid_request_error"}})
			return
		}

		var question string
		for _, msg := range req.Messages {
			if msg.Role == models.RoleUser {
				question = msg.Content
			}
		}

		c.JSON(http.StatusOK, &models.CompletionResponse{
			ID:      "chatcmpl-" + uuid.NewString(),
			Object:  "chat.completion",
			Created: time.Now().Unix(),
			Model:   req.Model,
			Choices: []models.CompletionChoice{
				{
					Message: models.CompletionMessage{
						Role:    models.RoleAssistant,
						Content: fmt.Sprintf("[%s] You asked: %s", req.Model, question),
					},
					FinishReason: "stop",
				},
			},
		})
	})

	return r
}
