package config

const (
	_etc = "/usr/local/etc/com.github.cohosting"
	_var = "/usr/local/var/com.github.cohosting"

	DefaultConfig  = _etc + "/cohosting-sheets.toml"
	DefaultWorkdir = _var
)
