package config

const (
	_etc = "/usr/local/etc/cohosting"
	_var = "/usr/local/var/cohosting"

	DefaultConfig  = _etc + "/cohosting-sheets.toml"
	DefaultWorkdir = _var
)
