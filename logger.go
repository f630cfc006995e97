package main

import (
	"log"
	"os"
)

// For log management on Render or systemd, stdout carries INFO lines and
// stderr carries ERROR lines:
//   - View logs: journalctl -u lead-bot
//   - View errors: journalctl -u lead-bot -p err

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
)

// initLoggers sets up separate loggers for stdout and stderr.
func initLoggers() {
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}
