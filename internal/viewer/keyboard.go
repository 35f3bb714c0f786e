package viewer

// Command is a viewer action produced from a key press.
type Command int

const (
	CmdNone Command = iota
	CmdNextPage
	CmdPrevPage
	CmdFirstPage
	CmdLastPage
	CmdZoomIn
	CmdZoomOut
	CmdResetZoom
	CmdFitToWidth
)

// keyBindings maps key identifiers to viewer commands.
var keyBindings = map[string]Command{
	"ArrowRight": CmdNextPage,
	"ArrowDown":  CmdNextPage,
	"PageDown":   CmdNextPage,
	" ":          CmdNextPage,
	"ArrowLeft":  CmdPrevPage,
	"ArrowUp":    CmdPrevPage,
	"PageUp":     CmdPrevPage,
	"Home":       CmdFirstPage,
	"End":        CmdLastPage,
	"+":          CmdZoomIn,
	"=":          CmdZoomIn,
	"-":          CmdZoomOut,
	"0":          CmdResetZoom,
	"w":          CmdFitToWidth,
}

// TranslateKey maps a key press to a command. While the user is typing in
// a text field every binding is suppressed, so navigation keys insert text
// instead of flipping pages.
func TranslateKey(key string, typing bool) Command {
	if typing {
		return CmdNone
	}
	return keyBindings[key]
}

// HandleKey translates and applies a key press to the document. It reports
// whether the key was consumed.
func (d *Document) HandleKey(key string, typing bool) bool {
	switch TranslateKey(key, typing) {
	case CmdNextPage:
		d.NextPage()
	case CmdPrevPage:
		d.PrevPage()
	case CmdFirstPage:
		_ = d.GoToPage(1)
	case CmdLastPage:
		if count := d.PageCount(); count > 0 {
			_ = d.GoToPage(count)
		}
	case CmdZoomIn:
		d.ZoomIn()
	case CmdZoomOut:
		d.ZoomOut()
	case CmdResetZoom:
		d.SetScale(DefaultScale)
	case CmdFitToWidth:
		_ = d.FitToWidth()
	default:
		return false
	}
	return true
}
