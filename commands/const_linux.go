package commands

const (
	_etc = "/usr/local/etc/uhppoted"
	_var = "/usr/local/var/uhppoted"

	DEFAULT_WORKDIR    = _var + "/formfiles"
	DEFAULT_PROPERTIES = _etc + "/formfiles/formfiles.yaml"
)
