// LogSieve - Security Log Analyzer
//
// LogSieve scans log files for security threats: authentication abuse,
// web attacks, network reconnaissance, malware indicators, and data
// exfiltration.
package main

import (
	"os"

	"github.com/logsieve/logsieve/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
