package gui

import (
	"fyne.io/fyne/v2"
)

type UpdateCallback func()

// AsyncManager runs work off the UI goroutine and applies the resulting
// update back on it.
type AsyncManager struct {
	app *App
}

func NewAsyncManager(app *App) *AsyncManager {
	return &AsyncManager{app: app}
}

func (a *AsyncManager) RunAsync(fn func() UpdateCallback) {
	go func() {
		updateFn := fn()
		if updateFn != nil {
			a.RunOnUIThread(updateFn)
		}
	}()
}

func (a *AsyncManager) RunOnUIThread(fn UpdateCallback) {
	fyne.Do(fn)
}
