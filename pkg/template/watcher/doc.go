// Package watcher invalidates cached templates when their files change on
// disk. It watches the configured directories with fsnotify, debounces
// rapid write bursts per path, and delegates the cascading removal of
// dependents to the cache's dependency graph.
package watcher
