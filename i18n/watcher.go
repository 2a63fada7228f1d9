package i18n

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// WatchLocales watches the locale directory for changes and reloads changed
// files. onReload, if non-nil, is invoked with the locale code after each
// successful reload (the live tracker uses this to re-track the refreshed
// messages). This should be called once, typically in development mode.
func (m *Manager) WatchLocales(dir string, onReload func(locale string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(dir); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					filename := filepath.Base(event.Name)
					if strings.HasSuffix(filename, ".toml") {
						localeCode := strings.TrimSuffix(filename, filepath.Ext(filename))
						log.Printf("[i18n] Reloading locale: %s", localeCode)
						if err := m.loadLocaleFile(localeCode, event.Name); err != nil {
							log.Printf("[i18n] Reload failed for %s: %v", localeCode, err)
							continue
						}
						if onReload != nil {
							onReload(localeCode)
						}
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[i18n] Watcher error: %v", err)
			}
		}
	}()

	return nil
}
