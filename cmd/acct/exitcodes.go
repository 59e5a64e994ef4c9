package main

// Exit codes returned by acct.
const (
	ExitSuccess     = 0 // Success, including "not found" outcomes
	ExitError       = 1 // General error (I/O failure, unknown command)
	ExitUsage       = 2 // Invalid arguments or flags, e.g. an unknown service
	ExitDataError   = 3 // Malformed storage file, duplicate account
	ExitConfigError = 2 // Unreadable or invalid configuration
)
