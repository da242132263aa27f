package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/alexandremahdhaoui/ez-relink/internal/resolve"
	"github.com/alexandremahdhaoui/ez-relink/internal/subenv"
	"github.com/alexandremahdhaoui/ez-relink/internal/validate"
	"github.com/alexandremahdhaoui/ez-relink/pkg/flaterrors"
	"github.com/spf13/cobra"
)

var (
	errUnknownBoard = errors.New("unknown board")
	errRenderingEnv = errors.New("rendering sub-build environment")
)

func (a *app) newEnvCommand() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "env <board>",
		Short: "Print the sub-build environment of <board> as shell exports",
		Long: "Print the variables handed to the relink sub-build, so the recipe in\n" +
			"res/<board> can be debugged by hand:\n\n" +
			"  eval \"$(relink env due)\" && make -C res/due",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return renderEnv(cmd.OutOrStdout(), s, args[0], check)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "also check that the resolved locations exist")

	return cmd
}

func renderEnv(w io.Writer, s settings, name string, check bool) error {
	b, ok := s.Registry.Lookup(name)
	if !ok {
		return flaterrors.Join(fmt.Errorf("%q (known: %v)", name, s.Registry.Names()), errUnknownBoard) //nolint:err113
	}

	r, err := resolve.Resolve(b, s.Env, s.ProjectDir, s.Envs.BuildRoot)
	if err != nil {
		return flaterrors.Join(err, errRenderingEnv)
	}

	if check {
		if err := validate.Check(r); err != nil {
			return flaterrors.Join(err, errRenderingEnv)
		}
	}

	_, err = io.WriteString(w, subenv.ExportScript(subenv.Overlay(r)))

	return err
}
