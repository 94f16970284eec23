package commands

const (
	APP     = "cohosting-sheets"
	VERSION = "v0.1.0"
)
