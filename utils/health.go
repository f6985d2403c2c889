package utils

import (
	"fmt"
	"sync"
	"time"
)

type HealthTracker struct {
	startTime     time.Time
	currentHealth Health
	mu            sync.RWMutex
}

var (
	defaultTracker *HealthTracker
	trackerOnce    sync.Once
)

func GetDefaultTracker() *HealthTracker {
	trackerOnce.Do(func() {
		defaultTracker = NewHealthTracker()
	})
	return defaultTracker
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{
		startTime: time.Now(),
		currentHealth: Health{
			Status:  "STARTING",
			Uptime:  "0s",
			Message: "Service is initializing",
		},
	}
}

func (h *HealthTracker) GetHealth() Health {
	h.mu.RLock()
	defer h.mu.RUnlock()

	health := h.currentHealth
	health.Uptime = formatUptime(time.Since(h.startTime))
	return health
}

func (h *HealthTracker) SetHealthStatus(status string, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.currentHealth.Status = status
	h.currentHealth.Message = message
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// GetHealth returns the current health status of the service.
func GetHealth() Health {
	return GetDefaultTracker().GetHealth()
}

// SetHealthStatus updates the health status of the service.
func SetHealthStatus(status string, message string) {
	GetDefaultTracker().SetHealthStatus(status, message)
}
