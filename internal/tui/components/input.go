package components

import (
	"strings"
	"unicode/utf8"
)

// Input is a single-line text input.
type Input struct {
	label       string
	value       []rune
	placeholder string
	width       int
	labelWidth  int
	focused     bool
	cursorPos   int
	maxLength   int
	styles      Styles
}

// NewInput creates a new input field.
func NewInput(label string) *Input {
	return &Input{
		label:      label,
		width:      20,
		labelWidth: 10,
		maxLength:  64,
		styles:     DefaultStyles(),
	}
}

// SetValue sets the input value and moves the cursor to its end.
func (i *Input) SetValue(v string) *Input {
	i.value = []rune(v)
	i.cursorPos = len(i.value)
	return i
}

// SetPlaceholder sets the placeholder text.
func (i *Input) SetPlaceholder(p string) *Input {
	i.placeholder = p
	return i
}

// SetWidth sets the input width.
func (i *Input) SetWidth(w int) *Input {
	i.width = w
	return i
}

// SetLabelWidth sets the label column width; zero hides the label.
func (i *Input) SetLabelWidth(w int) *Input {
	i.labelWidth = w
	return i
}

// SetMaxLength sets the maximum input length in characters.
func (i *Input) SetMaxLength(m int) *Input {
	i.maxLength = m
	return i
}

// SetStyles sets the input styles.
func (i *Input) SetStyles(styles Styles) *Input {
	i.styles = styles
	return i
}

// Focus sets the focus state.
func (i *Input) Focus(focused bool) {
	i.focused = focused
	if i.cursorPos > len(i.value) {
		i.cursorPos = len(i.value)
	}
}

// IsFocused returns the focus state.
func (i *Input) IsFocused() bool {
	return i.focused
}

// Value returns the current value with surrounding space removed.
func (i *Input) Value() string {
	return strings.TrimSpace(string(i.value))
}

// Reset clears the value.
func (i *Input) Reset() {
	i.value = nil
	i.cursorPos = 0
}

// HandleKey applies a key press to the value. Keys are ignored unless the
// input is focused.
func (i *Input) HandleKey(key string) {
	if !i.focused {
		return
	}

	switch key {
	case "backspace":
		if i.cursorPos > 0 {
			i.value = append(i.value[:i.cursorPos-1], i.value[i.cursorPos:]...)
			i.cursorPos--
		}
	case "delete":
		if i.cursorPos < len(i.value) {
			i.value = append(i.value[:i.cursorPos], i.value[i.cursorPos+1:]...)
		}
	case "left":
		if i.cursorPos > 0 {
			i.cursorPos--
		}
	case "right":
		if i.cursorPos < len(i.value) {
			i.cursorPos++
		}
	case "home", "ctrl+a":
		i.cursorPos = 0
	case "end", "ctrl+e":
		i.cursorPos = len(i.value)
	case "space":
		i.insert(' ')
	default:
		if utf8.RuneCountInString(key) == 1 {
			r, _ := utf8.DecodeRuneInString(key)
			i.insert(r)
		}
	}
}

func (i *Input) insert(r rune) {
	if len(i.value) >= i.maxLength {
		return
	}
	i.value = append(i.value[:i.cursorPos], append([]rune{r}, i.value[i.cursorPos:]...)...)
	i.cursorPos++
}

// Render renders the label and the value with a cursor when focused.
func (i *Input) Render() string {
	var display string
	switch {
	case len(i.value) == 0 && !i.focused && i.placeholder != "":
		display = i.styles.Muted.Render(PadRight(i.placeholder, i.width))
	case i.focused:
		text := string(i.value[:i.cursorPos]) + "_" + string(i.value[i.cursorPos:])
		display = i.styles.Accent.Render(PadRight(text, i.width))
	default:
		display = i.styles.Value.Render(PadRight(string(i.value), i.width))
	}

	if i.labelWidth == 0 {
		return display
	}
	return i.styles.Label.Render(PadRight(i.label+":", i.labelWidth)) + " " + display
}
