package api

import (
	"net/http"

	"github.com/brainrotbuster/buster-go/models"
	"github.com/gin-gonic/gin"
)

func TabActivatedHandler(c *gin.Context) {
	eng, err := getEngine(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req models.TabEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	eng.OnTabActivated(req.TabID, req.URL)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func TabUpdatedHandler(c *gin.Context) {
	eng, err := getEngine(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req models.TabEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	eng.OnTabNavigationComplete(req.TabID, req.URL, req.Status)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func IdleHandler(c *gin.Context) {
	eng, err := getEngine(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req models.IdleEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	eng.OnIdleStateChanged(req.State)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func ContentHandler(c *gin.Context) {
	eng, err := getEngine(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req models.ContentEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	eng.OnContent(req.TabID, req.Text)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func InterventionResponseHandler(c *gin.Context) {
	eng, err := getEngine(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req models.InterventionResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	switch req.Action {
	case "dismiss", "engage", "snooze":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}

	helpful := req.Helpful != nil && *req.Helpful
	eng.OnInterventionResponse(req.Action, helpful)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func MorningResponseHandler(c *gin.Context) {
	eng, err := getEngine(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req models.MorningResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	switch req.Action {
	case "bypass", "quickAction", "surprise":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}

	eng.OnMorningResponse(req.Action)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
