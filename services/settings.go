package services

import (
	"sync"
	"time"

	"raspa/database"
	"raspa/models"
)

const settingsTTL = 30 * time.Second

var settingsCache struct {
	mu        sync.RWMutex
	value     models.Setting
	fetchedAt time.Time
}

// GetSettings returns the platform settings row, cached for a short TTL so
// hot paths (order creation, commission runs) do not hit the table per call.
func GetSettings() (models.Setting, error) {
	settingsCache.mu.RLock()
	if time.Since(settingsCache.fetchedAt) < settingsTTL && settingsCache.value.ID != 0 {
		s := settingsCache.value
		settingsCache.mu.RUnlock()
		return s, nil
	}
	settingsCache.mu.RUnlock()

	var s models.Setting
	if err := database.DB.First(&s).Error; err != nil {
		return models.Setting{}, err
	}

	settingsCache.mu.Lock()
	settingsCache.value = s
	settingsCache.fetchedAt = time.Now()
	settingsCache.mu.Unlock()

	return s, nil
}

// InvalidateSettings drops the cache. Called after an admin settings update.
func InvalidateSettings() {
	settingsCache.mu.Lock()
	settingsCache.fetchedAt = time.Time{}
	settingsCache.mu.Unlock()
}
