// Package tray puts a pause toggle and the most recent media command in the
// desktop system tray.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray owns the tray icon and its menu. Callbacks fire on the systray event
// goroutine, so they must not block.
type Tray struct {
	onToggle    func(enabled bool)
	onOpenPanel func()
	onQuit      func()
	enabled     bool
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastCommand *systray.MenuItem
}

// New creates a Tray that starts in the listening state.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback invoked when the listening state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnOpenPanel sets the callback invoked when the control panel item is clicked.
func (t *Tray) OnOpenPanel(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpenPanel = fn
}

// OnQuit sets the callback invoked when the quit item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray event loop. It blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle("Maestro")
	systray.SetTooltip("Maestro gesture media control")

	t.menuToggle = systray.AddMenuItem("● Listening", "Pause or resume gesture control")
	systray.AddSeparator()

	t.menuLastCommand = systray.AddMenuItem("Last command: none", "Most recent media command")
	t.menuLastCommand.Disable()
	systray.AddSeparator()

	menuPanel := systray.AddMenuItem("Open Control Panel...", "Open the control panel in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Maestro")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuPanel.ClickedCh:
				t.handleOpenPanel()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if enabled {
		t.menuToggle.SetTitle("● Listening")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks.
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleOpenPanel() {
	t.mu.RLock()
	callback := t.onOpenPanel
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// Quit dismisses the tray icon and unblocks Run. Safe to call from any
// goroutine.
func (t *Tray) Quit() {
	systray.Quit()
}

// SetLastCommand updates the most recent command shown in the menu.
func (t *Tray) SetLastCommand(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastCommand != nil {
		if name == "" {
			t.menuLastCommand.SetTitle("Last command: none")
		} else {
			t.menuLastCommand.SetTitle("Last command: " + name)
		}
	}
}

// SetStatusLine replaces the tooltip with a short activity summary.
func (t *Tray) SetStatusLine(line string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuToggle == nil {
		return
	}
	systray.SetTooltip("Maestro: " + line)
}

// IsEnabled reports the current listening state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
