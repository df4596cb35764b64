package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phroun/elan"
	"golang.org/x/term"
)

var version = "0.1.0" // set via -ldflags at build time

// ANSI color codes for terminal output
const (
	colorYellow    = "\x1b[93m" // Bright yellow foreground
	colorDarkBrown = "\x1b[33m" // Dark yellow/brown for light backgrounds
	colorReset     = "\x1b[0m"  // Reset to default
)

// settings loaded from the config file; used for colors and history
var settings = defaultCLIConfig()

// getErrorColor returns the diagnostic color for the configured background
func getErrorColor() string {
	if settings.TermBackground == "light" {
		return colorDarkBrown
	}
	return colorYellow
}

// stderrSupportsColor checks if stderr is a terminal that supports color output
func stderrSupportsColor() bool {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return false
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// errorPrintf prints an error message to stderr, using color if supported
func errorPrintf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	if stderrSupportsColor() {
		fmt.Fprintf(os.Stderr, "%s%s%s", getErrorColor(), message, colorReset)
	} else {
		fmt.Fprint(os.Stderr, message)
	}
}

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug output")
	flag.BoolVar(debugFlag, "d", false, "Enable debug output (short)")
	categoriesFlag := flag.String("categories", "", "Comma-separated debug categories, or 'all'")
	maxLoopFlag := flag.Int("max-loop", 0, "Maximum while-loop iterations (default 10000)")
	maxDepthFlag := flag.Int("max-depth", 0, "Maximum nested calls and replays (default 256)")
	watchFlag := flag.Bool("watch", false, "Re-run the script whenever it changes")
	versionFlag := flag.Bool("version", false, "Show version and exit")
	configFlag := flag.String("config", "", "Configuration file (default ~/.elan/elan.yaml)")

	flag.Usage = showUsage
	flag.Parse()

	if *versionFlag {
		fmt.Printf("elan %s\n", version)
		os.Exit(0)
	}

	configPath, explicit := getConfigFilePath(), false
	if *configFlag != "" {
		configPath, explicit = *configFlag, true
	}
	fileConfig, err := loadCLIConfig(configPath, explicit)
	if err != nil {
		errorPrintf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	settings = fileConfig
	if err := fileConfig.checkVersion(version); err != nil {
		errorPrintf("Error: %v\n", err)
		os.Exit(1)
	}

	config := fileConfig.interpreterConfig()
	if *debugFlag {
		config.Debug = true
	}
	if *categoriesFlag != "" {
		config.Debug = true
		config.LogCategories = strings.Split(*categoriesFlag, ",")
	}
	if *maxLoopFlag > 0 {
		config.MaxLoopIterations = *maxLoopFlag
	}
	if *maxDepthFlag > 0 {
		config.MaxCallDepth = *maxDepthFlag
	}

	args := flag.Args()
	switch {
	case len(args) > 0:
		requestedFile := args[0]
		scriptFile := findScriptFile(requestedFile)
		if scriptFile == "" {
			errorPrintf("Error: Script file not found: %s\n", requestedFile)
			if filepath.Ext(requestedFile) == "" {
				errorPrintf("Also tried: %s.elan\n", requestedFile)
			}
			os.Exit(1)
		}
		if *watchFlag {
			if err := watchScript(scriptFile, config); err != nil {
				errorPrintf("Error watching %s: %v\n", scriptFile, err)
				os.Exit(1)
			}
			os.Exit(0)
		}
		os.Exit(runFile(scriptFile, config))

	case !term.IsTerminal(int(os.Stdin.Fd())):
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			errorPrintf("Error reading from stdin: %v\n", err)
			os.Exit(1)
		}
		if err := elan.New(config).Execute(string(content)); err != nil {
			os.Exit(1)
		}
		os.Exit(0)

	default:
		if *watchFlag {
			errorPrintf("Error: -watch requires a script file\n")
			os.Exit(1)
		}
		os.Exit(runREPL(config, settings.HistoryFile))
	}
}

// runFile executes one script with a fresh interpreter. The exit code is 1
// when the file cannot be read or any line failed to parse.
func runFile(path string, config *elan.Config) int {
	content, err := os.ReadFile(path)
	if err != nil {
		errorPrintf("Error reading script file: %v\n", err)
		return 1
	}
	if err := elan.New(config).ExecuteFile(string(content), path); err != nil {
		return 1
	}
	return 0
}

func findScriptFile(filename string) string {
	// First try the exact filename
	if _, err := os.Stat(filename); err == nil {
		return filename
	}

	// If no extension, try adding .elan
	if filepath.Ext(filename) == "" {
		elanFile := filename + ".elan"
		if _, err := os.Stat(elanFile); err == nil {
			return elanFile
		}
	}

	return ""
}

func showUsage() {
	usage := `Usage: elan [options] [script.elan]
       elan [options] < input.elan

Execute ELAN statements from a file, stdin, or an interactive prompt.

Options:
  -d, -debug          Enable debug output
  -categories LIST    Debug categories (parse,command,variable,argument,macro,
                      flow,memory,math,program,ledger,self,type,system,io or all)
  -max-loop N         Maximum while-loop iterations (default 10000)
  -max-depth N        Maximum nested calls and replays (default 256)
  -watch              Re-run the script whenever it changes
  -config FILE        Configuration file (default ~/.elan/elan.yaml)
  -version            Show version and exit

Arguments:
  script.elan         Script file to execute (adds .elan extension if needed)

Examples:
  elan hello.elan                  # Run a script
  elan -watch hello.elan           # Re-run on every save
  elan -categories macro,flow x    # Trace macro calls and control flow
`
	fmt.Fprint(os.Stderr, usage)
}
