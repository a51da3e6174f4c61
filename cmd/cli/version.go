package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/mtracker/internal/version"
)

const (
	versionCommandUseConstant              = "version"
	versionCommandShortDescriptionConstant = "Print the mtracker version"
	versionOutputTemplateConstant          = "%s v%s (commit %s, %s)\n"
)

type versionCommandBuilder struct{}

func (builder versionCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   versionCommandUseConstant,
		Short: versionCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			_, writeError := fmt.Fprintf(command.OutOrStdout(), versionOutputTemplateConstant, applicationNameConstant, version.Version, version.Commit, version.GoVersion)
			return writeError
		},
	}, nil
}
