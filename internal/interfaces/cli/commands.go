package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Invoicing-api/internal/application/validation"
	"github.com/jhoicas/Invoicing-api/internal/domain"
	"github.com/jhoicas/Invoicing-api/internal/infrastructure/fixtures"
)

func migrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el esquema de la base configurada",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := open(cmd.Context(), opts, true)
			if err != nil {
				return err
			}
			defer rt.close()

			rt.log.Info().Str("driver", rt.backend.Driver).Msg("esquema aplicado")
			fmt.Fprintf(cmd.OutOrStdout(), "esquema aplicado (%s)\n", rt.backend.Driver)
			return nil
		},
	}
}

func seedCmd(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea las facturas de un archivo YAML",
		Example: `  invoicectl seed --file fixtures/invoices.yaml
  invoicectl --sqlite ./invoices.db seed -f fixtures/invoices.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reqs, err := fixtures.Load(file)
			if err != nil {
				return err
			}
			// Todo el archivo se valida antes de escribir la primera factura.
			for i, req := range reqs {
				if errs := validation.ValidateCreateInvoice(req); errs != nil {
					return fmt.Errorf("invoices[%d]: %w", i, errs)
				}
			}

			rt, err := open(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer rt.close()

			out := cmd.OutOrStdout()
			for i, req := range reqs {
				inv, err := rt.invoices.CreateInvoice(cmd.Context(), req)
				if err != nil {
					return fmt.Errorf("invoices[%d]: %w", i, err)
				}
				rt.log.Debug().Int64("invoice_id", inv.ID).Msg("factura creada")
				fmt.Fprintf(out, "factura %d creada (%s, total %s)\n", inv.ID, inv.CustomerName, inv.TotalAmount.StringFixed(2))
			}
			rt.log.Info().Int("count", len(reqs)).Str("file", file).Msg("seed completado")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "archivo YAML con facturas")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func listCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lista las facturas, más recientes primero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := open(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer rt.close()

			list, err := rt.invoices.GetAllInvoices(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(sin facturas)")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREADA\tCLIENTE\tLÍNEAS\tTOTAL\tSALDO")
			for _, inv := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
					inv.ID,
					inv.CreatedAt.Format("2006-01-02 15:04:05"),
					inv.CustomerName,
					len(inv.Items),
					inv.TotalAmount.StringFixed(2),
					inv.BalanceAmount.StringFixed(2),
				)
			}
			return w.Flush()
		},
	}
}

func deleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Elimina una factura y sus líneas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rt, err := open(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer rt.close()

			deleted, err := rt.invoices.DeleteInvoice(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("factura %d: %w", id, domain.ErrNotFound)
			}
			rt.log.Info().Int64("invoice_id", id).Msg("factura eliminada")
			fmt.Fprintf(cmd.OutOrStdout(), "factura %d eliminada\n", id)
			return nil
		},
	}
}

func pdfCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pdf <id>",
		Short: "Genera el PDF de una factura",
		Example: `  invoicectl pdf 12
  invoicectl pdf 12 -o /tmp/factura.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			rt, err := open(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer rt.close()

			data, filename, err := rt.pdf.DownloadInvoicePDF(cmd.Context(), id)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("factura %d: %w", id, err)
				}
				return err
			}
			if output == "" {
				output = filename
			}
			if err := os.WriteFile(filepath.Clean(output), data, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PDF escrito en %s (%d bytes)\n", output, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "archivo de salida (por defecto factura-<id>.pdf)")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("id inválido %q: %w", s, domain.ErrInvalidInput)
	}
	return id, nil
}
