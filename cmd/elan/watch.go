package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/phroun/elan"
)

// watchDebounce collapses the burst of events an editor save produces
const watchDebounce = 150 * time.Millisecond

// watchScript runs the script, then runs it again with a fresh interpreter
// each time it changes, until interrupted. The directory is watched rather
// than the file so editors that replace the file on save are followed.
func watchScript(path string, config *elan.Config) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)

	runFile(path, config)
	fmt.Fprintf(os.Stderr, "-- watching %s (Ctrl-C to stop)\n", path)

	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isScriptChange(ev, abs) {
				timer.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			errorPrintf("Watch error: %v\n", err)
		case <-timer.C:
			fmt.Fprintf(os.Stderr, "-- %s changed, re-running\n", path)
			runFile(path, config)
		case <-sigc:
			return nil
		}
	}
}

// isScriptChange reports whether ev writes or recreates the watched file
func isScriptChange(ev fsnotify.Event, target string) bool {
	if filepath.Clean(ev.Name) != target {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
