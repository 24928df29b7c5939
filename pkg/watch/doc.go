// Package watch re-runs work when files change.
//
// FileWatcher wraps fsnotify. Directories are watched recursively and
// single files through their parent directory, so editors that save by
// rename are still observed. Bursts of events are coalesced by a Debouncer
// and the callback receives the last changed path.
//
//	w, err := watch.New(watch.DefaultConfig("strictvalue.yaml", "styles/"), logger)
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//
//	return w.Watch(ctx, func(path string) error {
//	    _, err := runner.Run(ctx)
//	    return err
//	})
package watch
