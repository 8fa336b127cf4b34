package display

import (
	"fmt"
	"io"

	"github.com/hkteamnoob/naeonm/internal/term"
)

// PrintBanner prints the ASCII art banner, in magenta when colors are on.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `
 _ __   __ _  ___  ___  _ __  _ __ ___
| '_ \ / _`+"`"+` |/ _ \/ _ \| '_ \| '_ `+"`"+` _ \
| | | | (_| |  __/ (_) | | | | | | | | |
|_| |_|\__,_|\___|\___/|_| |_|_| |_| |_|
`)
	fmt.Fprintln(w, term.NC)
}
