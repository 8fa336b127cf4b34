package planner

// TempSuffix is appended to the input path to name every command's output.
// The suffix is fixed regardless of the input container.
const TempSuffix = ".temp.mkv"

// TempPath returns the temporary output path for input.
func TempPath(input string) string {
	return input + TempSuffix
}
