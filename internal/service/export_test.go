package service

import "benchboard/internal/templates"

// TemplateWatcher exposes the active template watcher to tests.
func (s *BenchService) TemplateWatcher() *templates.Watcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watcher
}
