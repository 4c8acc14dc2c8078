package output

import "github.com/fatih/color"

var red = color.New(color.FgRed)

// RedStr colors str red when stderr is a terminal.
func RedStr(str string) string {
	return red.Sprint(str)
}
