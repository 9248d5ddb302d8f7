// Package all registers every command package with the shell.
package all

import (
	_ "github.com/robotalks/regulator.go/pkg/cli/cmds/regulator"
)
