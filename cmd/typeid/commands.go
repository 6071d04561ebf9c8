package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lzww0608/typeid"
	"github.com/Lzww0608/typeid/explain"
)

func newNewCmd(a *app) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new TypeID",
		Long: `Generate a new TypeID backed by a UUIDv7.

If a prefix is provided it is validated and included in the output,
otherwise a prefix-less TypeID is generated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tid, err := typeid.New(prefix)
			if err != nil {
				return err
			}
			a.logger.Debug("generated", "id", tid.String())
			fmt.Fprintln(cmd.OutOrStdout(), tid)
			return nil
		},
	}
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Type prefix")
	return cmd
}

func newEncodeCmd(a *app) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "encode UUID",
		Short: "Encode an existing UUID into a TypeID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tid, err := typeid.FromUUIDString(prefix, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tid)
			return nil
		},
	}
	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "Type prefix")
	return cmd
}

func newDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode TYPEID",
		Short: "Decode a TypeID into its prefix and UUID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tid, err := typeid.Parse(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "type: %s\n", tid.Prefix())
			fmt.Fprintf(out, "uuid: %s\n", tid.UUID())
			return nil
		},
	}
}

func newExplainCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain ID [ID...]",
		Short: "Explain TypeIDs: validity, derived facts and schema information",
		Long: `Explain parses and validates each argument, derives facts from it
(uuid, created_at, sortability) and enriches the result from a schema when
one is available. Invalid ids are reported, never treated as errors.

The schema is taken from --schema-db-*, --schema-zk-*, --schema, or
discovered from $TYPEID_SCHEMA, ./typeid.schema.{json,yaml,yml} and
<config>/typeid/schema.{json,yaml,yml}, in that order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := explain.ParseFormat(a.cfg.Format)
			if err != nil {
				return err
			}

			reg, warnings := a.resolveRegistry(cmd.Context())

			opts := []explain.Option{
				explain.WithSchemaEnabled(!a.cfg.NoSchema),
				explain.WithLinks(!a.cfg.NoLinks),
				explain.WithLogger(a.logger),
			}
			if reg != nil {
				opts = append(opts, explain.WithSchema(reg))
			}

			exps := explain.New(opts...).ExplainAll(args)
			for i := range exps {
				for _, w := range warnings {
					exps[i].AddExternalWarning(w)
				}
			}
			return explain.Render(cmd.OutOrStdout(), format, exps...)
		},
	}
	cmd.Flags().StringP(keyFormat, "f", "", "Output format: yaml|json|table")
	cmd.Flags().Bool(keyNoLinks, false, "Disable link template rendering")
	_ = a.v.BindPFlag(keyFormat, cmd.Flags().Lookup(keyFormat))
	_ = a.v.BindPFlag(keyNoLinks, cmd.Flags().Lookup(keyNoLinks))
	return cmd
}
