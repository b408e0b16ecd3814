package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
	"github.com/ShubhamP528/RentManagement-frontend/internal/service"
)

func newDocumentsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"document", "docs"},
		Short:   "Manage a tenant's documents",
	}
	cmd.AddCommand(newDocumentsListCmd(rt), newDocumentsUploadCmd(rt), newDocumentsDeleteCmd(rt))
	return cmd
}

func newDocumentsListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list TENANT_ID",
		Short: "List a tenant's documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			docs, err := rt.app.Services.Documents.List(cmd.Context(), args[0])
			if err != nil {
				return rt.explain(err)
			}
			rt.app.Nav.Navigate(model.ScreenTenantDocuments, model.Params{model.KeyTenantID: args[0]})
			return rt.print(docs, func(w io.Writer) error {
				if len(docs) == 0 {
					_, err := fmt.Fprintln(w, "No documents")
					return err
				}
				tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tTYPE\tUPLOADED\tURL")
				for _, d := range docs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.FileType, d.UploadedAt, d.URL)
				}
				return tw.Flush()
			})
		},
	}
}

func newDocumentsUploadCmd(rt *runtime) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "upload TENANT_ID FILE",
		Short: "Upload a photo or PDF; photos are downscaled first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("open document: %w", err)
			}
			defer f.Close()

			if name == "" {
				name = filepath.Base(args[1])
			}
			doc, err := rt.app.Services.Documents.Upload(cmd.Context(), args[0], service.Upload{
				Name:     name,
				FileName: filepath.Base(args[1]),
				Content:  f,
			})
			if err != nil {
				return rt.explain(err)
			}
			return rt.print(doc, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Uploaded %s (%s)\n", doc.Name, doc.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "document name (default file name)")
	return cmd
}

func newDocumentsDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete TENANT_ID DOCUMENT_ID",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.requireSession(); err != nil {
				return err
			}
			if err := rt.app.Services.Documents.Delete(cmd.Context(), args[0], args[1]); err != nil {
				return rt.explain(err)
			}
			_, err := fmt.Fprintf(rt.opts.Out, "Deleted document %s\n", args[1])
			return err
		},
	}
}
