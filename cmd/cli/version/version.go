package version

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sfdn-project/oracle-gateway/cmd/util/flags/cliflags"
	"github.com/sfdn-project/oracle-gateway/cmd/util/hook"
	"github.com/sfdn-project/oracle-gateway/cmd/util/output"
	"github.com/sfdn-project/oracle-gateway/pkg/models"
	"github.com/sfdn-project/oracle-gateway/pkg/version"
)

type VersionOptions struct {
	OutputOpts output.OutputOptions
}

func NewVersionOptions() *VersionOptions {
	return &VersionOptions{
		OutputOpts: output.OutputOptions{Format: output.TableFormat},
	}
}

func NewCmd() *cobra.Command {
	oV := NewVersionOptions()

	versionCmd := &cobra.Command{
		Use:    "version",
		Short:  "Show the build version of this binary",
		Args:   cobra.NoArgs,
		PreRun: hook.ApplyPorcelainLogLevel,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return oV.Run(cmd)
		},
	}
	versionCmd.Flags().AddFlagSet(cliflags.OutputFormatFlags(&oV.OutputOpts))

	return versionCmd
}

var versionColumn = output.TableColumn[models.BuildVersionInfo]{
	ColumnConfig: table.ColumnConfig{Name: "version"},
	Value:        func(v models.BuildVersionInfo) string { return v.GitVersion },
}

var commitColumn = output.TableColumn[models.BuildVersionInfo]{
	ColumnConfig: table.ColumnConfig{Name: "commit"},
	Value:        func(v models.BuildVersionInfo) string { return v.GitCommit },
}

var buildDateColumn = output.TableColumn[models.BuildVersionInfo]{
	ColumnConfig: table.ColumnConfig{Name: "built"},
	Value: func(v models.BuildVersionInfo) string {
		if v.BuildDate.IsZero() {
			return ""
		}
		return v.BuildDate.UTC().Format(time.RFC3339)
	},
}

var platformColumn = output.TableColumn[models.BuildVersionInfo]{
	ColumnConfig: table.ColumnConfig{Name: "platform"},
	Value:        func(v models.BuildVersionInfo) string { return fmt.Sprintf("%s/%s", v.GOOS, v.GOARCH) },
}

func (oV *VersionOptions) Run(cmd *cobra.Command) error {
	columns := []output.TableColumn[models.BuildVersionInfo]{
		versionColumn, commitColumn, buildDateColumn, platformColumn,
	}
	return output.OutputOne(cmd, columns, oV.OutputOpts, *version.Get())
}
