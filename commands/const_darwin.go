package commands

const (
	_etc = "/usr/local/etc/com.github.uhppoted"
	_var = "/usr/local/var/com.github.uhppoted"

	DEFAULT_WORKDIR    = _var + "/formfiles"
	DEFAULT_PROPERTIES = _etc + "/formfiles/formfiles.yaml"
)
