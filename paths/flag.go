package paths

import (
	"flag"
	"os"
)

// SetupFilePathFlag creates a new string flag with the passed name with a sane
// default for the path to the file, if found using the Find function. If not,
// the flag defaults to an empty string.
func SetupFilePathFlag(fileName, flagName string, flagPtr *string) {
	flag.StringVar(flagPtr, flagName, Find(fileName), "Path to "+fileName)
}

// SetupDirFlag is SetupFilePathFlag for a directory: the default is the
// first search directory that exists.
func SetupDirFlag(flagName string, flagPtr *string) {
	def := ""
	for _, d := range Dirs() {
		if st, err := os.Stat(d); err == nil && st.IsDir() {
			def = d
			break
		}
	}
	flag.StringVar(flagPtr, flagName, def, "Directory holding sprite files")
}
