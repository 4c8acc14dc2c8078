package hook

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ApplyPorcelainLogLevel quietens loggers running under user-facing
// "porcelain" commands so their output stays parseable. An explicit
// LOG_LEVEL wins over the quietening.
func ApplyPorcelainLogLevel(cmd *cobra.Command, _ []string) {
	if _, exists := os.LookupEnv("LOG_LEVEL"); exists {
		return
	}

	ctx := cmd.Context()
	ctx = log.Ctx(ctx).Level(zerolog.FatalLevel).WithContext(ctx)
	cmd.SetContext(ctx)
}
