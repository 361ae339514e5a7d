package diagfmt

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ColorEnabled determines if color should be enabled based on mode and
// writer. Mode values: "auto" (default), "on", "off".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is
// not set.
func ColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "on", "always":
		return true
	case "off", "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
