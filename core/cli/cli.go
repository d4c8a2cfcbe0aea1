package cli

import (
	cliContext "github.com/flux-anime/weaver/core/cli/context"
)

var CLI struct {
	cliContext.Context `embed:""`

	Run RunCMD `cmd:"" help:"Run the Anime Weaver API server, this is the default command if no other command is specified" default:"withargs"`
}
