package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"deskmate-server/internal/gridconv"
	"deskmate-server/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// LayoutWatcher перезагружает объекты в MemoryStore при каждом изменении
// layout-файла на диске. Позиция агента - живое состояние, ее не трогаем.
type LayoutWatcher struct {
	path  string
	store *MemoryStore
	conv  *gridconv.Converter
	log   *logrus.Entry
}

func NewLayoutWatcher(path string, store *MemoryStore, conv *gridconv.Converter) *LayoutWatcher {
	return &LayoutWatcher{
		path:  filepath.Clean(path),
		store: store,
		conv:  conv,
		log:   logger.For("layout_watcher").WithField("path", path),
	}
}

// Run блокируется до завершения ctx. Следим за каталогом, а не за файлом:
// редакторы обычно заменяют файл, а не пишут в него.
func (w *LayoutWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.log.Info("watching layout")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("watcher error")
		}
	}
}

func (w *LayoutWatcher) reload() {
	snap, err := LoadLayout(w.path, w.conv)
	if err != nil {
		// Недописанный файл при сохранении - обычное дело, следующее событие повторит попытку.
		w.log.WithError(err).Warn("layout reload skipped")
		return
	}
	w.store.ReplaceObjects(snap.Objects)
	w.log.WithField("objects", len(snap.Objects)).Info("layout reloaded")
}
