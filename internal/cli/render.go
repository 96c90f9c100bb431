package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mitranim/sqlcrit"
	"github.com/mitranim/sqlcrit/internal/critdef"
)

// RenderResult is the output of the render command.
type RenderResult struct {
	SQL  string `json:"sql"`
	Args []any  `json:"args"`
}

func (r RenderResult) String() string {
	return fmt.Sprintf("%s\nargs: %v", r.SQL, r.Args)
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render <file>",
		Short: "Render the statement described by a definition file",
		Long: `Load a YAML definition, replay its criteria and joins through the
collectors and print the resulting SQL with its ordinal arguments.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, args[0], cmd)
		},
	}
}

func runRender(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	_, text, args, err := renderFile(opts, path, formatter)
	if err != nil {
		return err
	}

	if args == nil {
		args = []any{}
	}
	return formatter.Success(RenderResult{SQL: text, Args: args})
}

/*
Loads, builds and renders a definition. Failures are reported through the
formatter and returned as `*ExitError`.
*/
func renderFile(opts *RootOptions, path string, formatter *OutputFormatter) (*critdef.Def, string, []any, error) {
	log := opts.logger().With(zap.String("path", path))

	def, err := critdef.Load(opts.Fs, path)
	if err != nil {
		log.Debug("load failed", zap.Error(err))
		code, exit := ErrCodeParse, ExitFailure
		if errors.Is(err, fs.ErrNotExist) {
			code, exit = ErrCodeNotFound, ExitCommandError
		}
		_ = formatter.Error(code, err.Error(), nil)
		return nil, ``, nil, WrapExitError(exit, "loading definition", err)
	}

	stats := def.Stats()
	log.Debug("loaded definition",
		zap.Int("cols", stats.Cols),
		zap.Int("joins", stats.Joins),
		zap.Int("where", stats.Where),
		zap.Int("having", stats.Having),
	)
	formatter.VerboseLog("Loaded %s", path)

	sel, err := def.Build()
	if err == nil {
		var text string
		var args []any
		text, args, err = sqlcrit.ReifyErr(sel)
		if err == nil {
			log.Debug("rendered statement", zap.Int("args", len(args)))
			return def, text, args, nil
		}
	}

	log.Debug("build failed", zap.Error(err))
	_ = formatter.Error(ErrCodeBuild, err.Error(), errCode(err))
	return nil, ``, nil, WrapExitError(ExitFailure, "building definition", err)
}

func errCode(err error) any {
	var val sqlcrit.Err
	if errors.As(err, &val) {
		return string(val.Code)
	}
	return nil
}
