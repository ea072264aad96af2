// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/olegiv/instcms/internal/legacy"
)

var importLegacyArgs struct {
	DSN    string
	Prefix string
}

func newImportCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "import",
		Short: "Import content from other systems",
	}

	legacyCmd := &cobra.Command{
		Use:   "legacy",
		Short: "Import the PHP site's MySQL database",
		Long: "Copy pages, news, banners, directories, publications, gallery, settings and admin users " +
			"from the PHP site's MySQL database. Soft-deleted rows are skipped.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}

			dsn := importLegacyArgs.DSN
			if dsn == "" {
				dsn = cfg.LegacyDSN
			}
			if dsn == "" {
				return errors.New("no legacy DSN: pass --dsn or set INSTCMS_LEGACY_DSN")
			}
			prefix := importLegacyArgs.Prefix
			if !cmd.Flags().Changed("prefix") {
				prefix = cfg.LegacyTablePrefix
			}

			reader, err := legacy.NewReader(cmd.Context(), dsn, prefix)
			if err != nil {
				return err
			}
			defer func() { _ = reader.Close() }()

			db, err := openDatabase(cfg, true)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			res, err := legacy.NewImporter(db, logger).Import(cmd.Context(), reader)
			if err != nil {
				return fmt.Errorf("importing legacy data: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "TABLE\tIMPORTED\tSKIPPED")
			for _, t := range res.Tables {
				_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\n", t.Table, t.Imported, t.Skipped)
			}
			_, _ = fmt.Fprintf(tw, "total\t%d\t\n", res.Total())
			return tw.Flush()
		},
	}
	legacyCmd.Flags().StringVar(&importLegacyArgs.DSN, "dsn", "", "MySQL DSN, e.g. user:pass@tcp(host:3306)/site (default INSTCMS_LEGACY_DSN)")
	legacyCmd.Flags().StringVar(&importLegacyArgs.Prefix, "prefix", "", "legacy table prefix (default INSTCMS_LEGACY_TABLE_PREFIX)")

	command.AddCommand(legacyCmd)
	return command
}
