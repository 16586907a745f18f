// Package api provides the HTTP surface consumed by the browser extension.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	defaults "github.com/brainrotbuster/buster-go/config"
	"github.com/brainrotbuster/buster-go/models"
	"github.com/brainrotbuster/buster-go/store"
	"github.com/brainrotbuster/buster-go/utils"
	"github.com/gin-gonic/gin"
)

const keyAdminPasswordHash = "adminPasswordHash"

func LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if !validateAdminLogin(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	token, err := utils.GenerateAuthToken(defaults.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.SetCookie("auth_token", token, 24*3600, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// validateAdminLogin prefers the bcrypt hash persisted in settings, falling
// back to the plaintext ADMIN_PASSWORD env for first-run setups.
func validateAdminLogin(password string) bool {
	st := store.GetGlobalStore()
	if st != nil {
		if hash := store.GetString(st, keyAdminPasswordHash, ""); hash != "" {
			return utils.CheckPassword(hash, password)
		}
	}
	return defaults.AdminPassword != "" && password == defaults.AdminPassword
}

func SseHandler(c *gin.Context) {
	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := models.Broadcaster.AddClient()
	defer models.Broadcaster.RemoveClient(ch)

	flusher, ok := w.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	for {
		select {
		case msg := <-ch:
			fmt.Fprint(w, msg)
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

func DBStatusHandler(c *gin.Context) {
	st := store.GetGlobalStore()
	if st == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	backend := "memory"
	if dbStore, ok := st.(*store.DBStore); ok {
		backend = dbStore.ConnectionInfo()
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": backend})
}

func SessionHandler(c *gin.Context) {
	eng, err := getEngine(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, eng.Snapshot())
}

func GetSettingsHandler(c *gin.Context) {
	st := store.GetGlobalStore()
	if st == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}

	leadEmail := store.GetString(st, "leadEmail", "")
	if leadEmail != "" && defaults.AESKey != "" {
		if decrypted, err := utils.Decrypt(leadEmail, defaults.AESKey); err == nil {
			leadEmail = decrypted
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"idleThresholdHours":  store.GetInt(st, "idleThresholdHours", defaults.DefaultIdleThresholdHours),
		"morningStart":        store.GetString(st, "morningStart", defaults.DefaultMorningStart),
		"morningEnd":          store.GetString(st, "morningEnd", defaults.DefaultMorningEnd),
		"morningMessageStyle": store.GetString(st, "morningMessageStyle", defaults.DefaultMessageStyle),
		"leadEmail":           leadEmail,
	})
}

func UpdateSettingsHandler(c *gin.Context) {
	st := store.GetGlobalStore()
	if st == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	}

	var req models.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	if req.IdleThresholdHours != nil {
		if *req.IdleThresholdHours < 1 || *req.IdleThresholdHours > 24 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "idleThresholdHours must be between 1 and 24"})
			return
		}
		setSetting(c, st, "idleThresholdHours", fmt.Sprintf("%d", *req.IdleThresholdHours))
	}
	if req.MorningStart != nil {
		if _, err := utils.ParseClockMinutes(*req.MorningStart); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid morningStart"})
			return
		}
		setSetting(c, st, "morningStart", *req.MorningStart)
	}
	if req.MorningEnd != nil {
		if _, err := utils.ParseClockMinutes(*req.MorningEnd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid morningEnd"})
			return
		}
		setSetting(c, st, "morningEnd", *req.MorningEnd)
	}
	if req.MorningMessageStyle != nil {
		if _, ok := models.MorningMessages[*req.MorningMessageStyle]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown message style"})
			return
		}
		setSetting(c, st, "morningMessageStyle", *req.MorningMessageStyle)
	}
	if req.LeadEmail != nil {
		value := *req.LeadEmail
		if value != "" && defaults.AESKey != "" {
			encrypted, err := utils.Encrypt(value, defaults.AESKey)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encrypt email"})
				return
			}
			value = encrypted
		}
		setSetting(c, st, "leadEmail", value)
	}

	if c.IsAborted() {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func setSetting(c *gin.Context, st store.Store, key, value string) {
	if err := st.Set(key, value); err != nil {
		log.Printf("ERROR: UpdateSettingsHandler - failed to persist %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist setting"})
		c.Abort()
	}
}

// BroadcastSnapshot serializes a snapshot onto the dashboard SSE stream. Wired
// as the engine's snapshot callback in main.
func BroadcastSnapshot(snapshot models.SessionSnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("ERROR: failed to marshal session snapshot: %v", err)
		return
	}
	models.Broadcaster.Broadcast("session_update", string(data))
}
