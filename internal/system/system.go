// Package system wraps the host console: text/graphics mode, cursor
// visibility, stdio redirection and raw keyboard events.
package system

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// EnterGraphics switches the console to graphics mode and hides the cursor.
// Both steps are best-effort; the first error is returned after logging.
func EnterGraphics(l logger) error {
	err := SetGraphicsMode()
	report(l, "KD_GRAPHICS set", "KD_GRAPHICS failed", err)
	cerr := HideCursor()
	report(l, "cursor hidden", "hide cursor failed", cerr)
	if err != nil {
		return err
	}
	return cerr
}

// LeaveGraphics undoes EnterGraphics.
func LeaveGraphics(l logger) error {
	cerr := ShowCursor()
	report(l, "cursor shown", "show cursor failed", cerr)
	err := RestoreTextMode()
	report(l, "KD_TEXT set", "KD_TEXT failed", err)
	if err != nil {
		return err
	}
	return cerr
}

func report(l logger, ok, failed string, err error) {
	if l == nil {
		return
	}
	if err != nil {
		l.Errorf("tty", "%s: %v", failed, err)
		return
	}
	l.Infof("tty", "%s", ok)
}
