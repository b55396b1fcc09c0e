package alerta

// ButtonPreset is a well-established button row, in the order users expect.
type ButtonPreset int

const (
	Close ButtonPreset = iota
	OK
	OKCancel
	RetryCancel
	YesNo
	YesNoCancel
)

var presetLabels = map[ButtonPreset][]string{
	Close:       {"Close"},
	OK:          {"OK"},
	OKCancel:    {"OK", "Cancel"},
	RetryCancel: {"Retry", "Cancel"},
	YesNo:       {"Yes", "No"},
	YesNoCancel: {"Yes", "No", "Cancel"},
}

var presetNames = map[string]ButtonPreset{
	"close":       Close,
	"ok":          OK,
	"okcancel":    OKCancel,
	"retrycancel": RetryCancel,
	"yesno":       YesNo,
	"yesnocancel": YesNoCancel,
}

// Labels returns a copy of the preset's button labels.
func (p ButtonPreset) Labels() []string {
	labels, ok := presetLabels[p]
	if !ok {
		labels = presetLabels[Close]
	}
	return append([]string(nil), labels...)
}

// ParseButtonPreset parses a preset name such as "yesnocancel".
func ParseButtonPreset(s string) (ButtonPreset, error) {
	if p, ok := presetNames[s]; ok {
		return p, nil
	}
	return Close, ErrInvalidValue
}
