package service

import (
	"strconv"

	"benchboard/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Window Size Persistence
// ─────────────────────────────────────────────────────────────
//
// Saves and restores the desktop window size between sessions.

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowSettingsService persists window size between sessions.
type WindowSettingsService struct {
	settings *storage.SettingsStore
	fallback WindowSize
}

// NewWindowSettingsService creates a WindowSettingsService. fallback is
// returned when nothing usable is stored.
func NewWindowSettingsService(settings *storage.SettingsStore, fallback WindowSize) *WindowSettingsService {
	return &WindowSettingsService{settings: settings, fallback: fallback}
}

const (
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
	minWindowWidth      = 800
	minWindowHeight     = 600
)

// LoadWindowSize returns the saved window dimensions, or the fallback.
func (s *WindowSettingsService) LoadWindowSize() WindowSize {
	size := s.fallback
	if s.settings == nil {
		return size
	}
	if w, ok := s.readInt(settingWindowWidth); ok && w >= minWindowWidth {
		size.Width = w
	}
	if h, ok := s.readInt(settingWindowHeight); ok && h >= minWindowHeight {
		size.Height = h
	}
	return size
}

func (s *WindowSettingsService) readInt(name string) (int, bool) {
	v, ok, err := s.settings.Get(name)
	if err != nil || !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

// SaveWindowSize persists the current window dimensions.
func (s *WindowSettingsService) SaveWindowSize(width, height int) error {
	if err := s.settings.Set(settingWindowWidth, strconv.Itoa(width)); err != nil {
		return err
	}
	return s.settings.Set(settingWindowHeight, strconv.Itoa(height))
}
