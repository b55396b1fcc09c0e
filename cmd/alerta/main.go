// Command alerta shows a message dialog and prints the user's answer: the
// label of the clicked button, or "closed".
//
//	alerta -icon question -buttons yesno -message "Overwrite the file?"
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/alerta-go/alerta"
	"github.com/alerta-go/alerta/x11"
)

func init() {
	log.SetFlags(0)
	log.SetPrefix("alerta: ")
}

var (
	title   = flag.String("title", "", "window title (default: named after the icon)")
	message = flag.String("message", "", "message text; \\n starts a new line")
	icon    = flag.String("icon", "info", "icon: error, warning, info or question")
	buttons = flag.String("buttons", "close", "button preset: close, ok, okcancel, retrycancel, yesno, yesnocancel; or a comma separated list of labels")
	theme   = flag.String("theme", "", "color theme: light or dark (default: ask the desktop)")
	display = flag.String("display", "", "X display (default: $DISPLAY)")
	quiet   = flag.Bool("q", false, "do not log diagnostics")
)

func main() {
	flag.Parse()
	x11.PrintLog = !*quiet

	b := alerta.New().Display(*display)
	if *title != "" {
		b.Title(*title)
	}
	if *message != "" {
		b.Message(strings.ReplaceAll(*message, `\n`, "\n"))
	} else if flag.NArg() > 0 {
		b.Message(strings.Join(flag.Args(), " "))
	}

	ic, err := alerta.ParseIcon(*icon)
	if err != nil {
		log.Fatalf("-icon %q: %v", *icon, err)
	}
	b.Icon(ic)

	if *theme != "" {
		t, err := alerta.ParseTheme(*theme)
		if err != nil {
			log.Fatalf("-theme %q: %v", *theme, err)
		}
		b.Theme(t)
	}

	labels := buttonLabels(*buttons)
	b.Buttons(labels...)

	answer, err := b.Show()
	if err != nil {
		log.Fatal(err)
	}
	if i, ok := answer.Button(); ok {
		fmt.Println(labels[i])
		return
	}
	fmt.Println("closed")
	os.Exit(2)
}

// buttonLabels resolves a preset name, or splits a list of custom labels.
func buttonLabels(s string) []string {
	if p, err := alerta.ParseButtonPreset(s); err == nil {
		return p.Labels()
	}
	var labels []string
	for _, l := range strings.Split(s, ",") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}
