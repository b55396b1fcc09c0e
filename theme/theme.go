// Package theme detects whether the desktop prefers a light or a dark color
// scheme.
//
// X11 has no built-in mechanism for this. Detect asks, in order, the XDG
// desktop portal over the D-Bus session bus and then gsettings, and uses the
// first answer that makes sense. The portal is preferred: gsettings does not
// follow theme changes on KDE.
package theme

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/alerta-go/alerta/ui"
)

// Timeout bounds each query.
var Timeout = 100 * time.Millisecond

const (
	portalDest     = "org.freedesktop.portal.Desktop"
	portalPath     = "/org/freedesktop/portal/desktop"
	portalRead     = "org.freedesktop.portal.Settings.Read"
	appearanceNS   = "org.freedesktop.appearance"
	colorSchemeKey = "color-scheme"
	gnomeInterface = "org.gnome.desktop.interface"
)

// Detect returns the desktop's preferred theme, or ui.Light when nothing
// answers.
func Detect() ui.Theme {
	if t, err := FromPortal(); err == nil {
		return t
	}
	if t, err := FromGSettings(); err == nil {
		return t
	}
	return ui.Light
}

// FromPortal reads org.freedesktop.appearance color-scheme from the desktop
// portal. It only talks to a session bus that is already running; it never
// launches one.
func FromPortal() (ui.Theme, error) {
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	conn, err := dbus.SessionBusPrivateNoAutoStartup(dbus.WithContext(ctx))
	if err != nil {
		return ui.Light, err
	}
	defer conn.Close()
	if err := conn.Auth(nil); err != nil {
		return ui.Light, err
	}
	if err := conn.Hello(); err != nil {
		return ui.Light, err
	}

	var v dbus.Variant
	err = conn.Object(portalDest, dbus.ObjectPath(portalPath)).
		CallWithContext(ctx, portalRead, 0, appearanceNS, colorSchemeKey).
		Store(&v)
	if err != nil {
		return ui.Light, err
	}
	return parsePortalValue(v)
}

// parsePortalValue decodes the portal answer: 1 means prefer dark, 2 prefer
// light. Read wraps the value in a second variant.
func parsePortalValue(v dbus.Variant) (ui.Theme, error) {
	val := v.Value()
	if inner, ok := val.(dbus.Variant); ok {
		val = inner.Value()
	}
	scheme, ok := val.(uint32)
	if !ok {
		return ui.Light, fmt.Errorf("unexpected color scheme value %s", v.String())
	}
	switch scheme {
	case 1:
		return ui.Dark, nil
	case 2:
		return ui.Light, nil
	}
	return ui.Light, fmt.Errorf("unknown color scheme preference: %d", scheme)
}

// FromGSettings runs `gsettings get org.gnome.desktop.interface color-scheme`.
func FromGSettings() (ui.Theme, error) {
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "gsettings", "get", gnomeInterface, colorSchemeKey).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return ui.Light, fmt.Errorf("failed to query gsettings: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return ui.Light, err
	}
	return parseGSettings(string(out))
}

func parseGSettings(out string) (ui.Theme, error) {
	switch s := strings.Trim(strings.TrimSpace(out), "'"); s {
	case "prefer-dark":
		return ui.Dark, nil
	case "prefer-light":
		return ui.Light, nil
	default:
		return ui.Light, fmt.Errorf("unknown color scheme preference: %s", s)
	}
}
