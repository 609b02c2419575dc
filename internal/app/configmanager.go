package app

import (
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/pawsworks/petshop/internal/domain"
)

// ConfigManager caches sys_config rows and exposes typed accessors.
// Values are reloaded lazily after the TTL expires.
type ConfigManager struct {
	app      *Application
	mu       sync.RWMutex
	values   map[string]string
	loadedAt time.Time
	ttl      time.Duration
}

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{
		app:    app,
		values: make(map[string]string),
		ttl:    60 * time.Second,
	}
}

func (m *ConfigManager) reloadIfStale() {
	m.mu.RLock()
	stale := time.Since(m.loadedAt) > m.ttl
	m.mu.RUnlock()
	if !stale {
		return
	}

	var rows []domain.SysConfig
	if err := m.app.DB().Find(&rows).Error; err != nil {
		zap.L().Error("failed to load sys_config", zap.Error(err))
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string, len(rows))
	for _, row := range rows {
		m.values[row.Type+"."+row.Name] = row.Value
	}
	m.loadedAt = time.Now()
}

func (m *ConfigManager) getValue(category, name string) string {
	m.reloadIfStale()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[category+"."+name]
}

func (m *ConfigManager) GetString(category, name string) string {
	return m.getValue(category, name)
}

func (m *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(m.getValue(category, name))
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.getValue(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.getValue(category, name))
}

// SetValue updates or creates a configuration row and refreshes the cache.
func (m *ConfigManager) SetValue(category, name, value string) error {
	var row domain.SysConfig
	err := m.app.DB().Where("type = ? and name = ?", category, name).First(&row).Error
	if err != nil {
		row = domain.SysConfig{Type: category, Name: name, Value: value}
		err = m.app.DB().Create(&row).Error
	} else {
		err = m.app.DB().Model(&domain.SysConfig{}).
			Where("id = ?", row.ID).Update("value", value).Error
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.values[category+"."+name] = value
	m.mu.Unlock()
	return nil
}
