/*
Package alerta shows simple message dialogs ("message boxes") on X11 without
a GUI toolkit and without running an external program like zenity.

It talks the X11 core protocol directly (package x11), paints the dialog
into a pixel buffer itself (package ui) and uploads the result. The only
thing it needs from the environment is $DISPLAY, plus $XAUTHORITY when the
server requires authorization.

Example

	answer, err := alerta.New().
		Title("Dialog Title").
		Message("This text will appear inside the dialog window.\n\n" +
			"It can contain multiple lines of text that will be soft-wrapped to fit in the window.").
		Icon(alerta.Warning).
		ButtonPreset(alerta.YesNoCancel).
		Show()
	if err != nil {
		log.Fatal(err)
	}
	if i, ok := answer.Button(); ok {
		fmt.Println("clicked button", i)
	}

Themes

The color theme follows the desktop's light/dark preference, as reported by
package theme. Use Builder.Theme to force one, or Builder.ThemeFunc to supply
another source.

Moving the window

Dragging the dialog background moves the window. alerta does not track the
pointer itself: it asks the window manager to perform the move, using the
_NET_WM_MOVERESIZE convention. Presses that start on a button never move the
window.

Errors

Show returns *x11.ConnectionError when the display cannot be reached,
*x11.ProtocolError when the server sends something unexpected or uses a
pixel format alerta cannot encode, and *x11.OperationError when the server
refuses a request. Diagnostics about best-effort steps go to stderr unless
x11.PrintLog is false.
*/
package alerta
