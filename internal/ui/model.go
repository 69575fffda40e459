// Package ui provides a dismissible notice line for Bubble Tea models.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/calcoloergosum/vocagen/style"
	tea "github.com/charmbracelet/bubbletea"
)

// Lifetime is how long a notice stays on screen.
const Lifetime = 3 * time.Second

// Model holds the notice currently shown.
type Model struct {
	notification string
	notifiedAt   time.Time
}

// ClearNotificationMsg clears notices older than Lifetime.
type ClearNotificationMsg struct {
	At time.Time
}

// Notify returns a tea.Cmd producing a notice.
func Notify(format string, args ...any) tea.Cmd {
	return func() tea.Msg {
		return fmt.Sprintf(format, args...)
	}
}

// ClearNotification returns a delayed tea.Cmd that clears the current notification.
func ClearNotification() tea.Cmd {
	return tea.Tick(Lifetime, func(t time.Time) tea.Msg {
		return ClearNotificationMsg{At: t}
	})
}

// Update records string messages as notices.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case string:
		if msg == "" {
			return nil
		}
		m.notification = msg
		m.notifiedAt = time.Now()
		return ClearNotification()
	case ClearNotificationMsg:
		// a newer notice gets its own full lifetime
		if msg.At.Sub(m.notifiedAt) >= Lifetime {
			m.notification = ""
		}
		return nil
	}
	return nil
}

// Notice returns the notice currently shown, if any.
func (m *Model) Notice() string {
	return m.notification
}

// View appends the current notice to the last line of mainContent.
func (m *Model) View(mainContent string) string {
	if m.notification == "" {
		return mainContent
	}

	lines := strings.Split(mainContent, "\n")
	lines[len(lines)-1] = lines[len(lines)-1] + "  " + style.Faint(m.notification)
	return strings.Join(lines, "\n")
}
