package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
)

// filesCmd maintains the file catalog index that search reads from
func filesCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage the file catalog",
	}
	cmd.AddCommand(filesPutCmd(cfgPath), filesDeleteCmd(cfgPath))
	return cmd
}

func filesPutCmd(cfgPath *string) *cobra.Command {
	var file domain.File

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Add or replace a catalog entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file.ID == "" {
				file.ID = uuid.New().String()
			}
			file.UploadedAt = time.Now().UTC()

			a, err := loadApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.files.Put(cmd.Context(), &file); err != nil {
				return fmt.Errorf("put file: %w", err)
			}
			cmd.Println(file.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&file.ID, "id", "", "file ID (generated when empty)")
	f.StringVarP(&file.WorkspaceID, "workspace", "w", "", "workspace ID")
	f.StringVar(&file.ChannelID, "channel", "", "channel the file was shared in")
	f.StringVar(&file.Filename, "filename", "", "file name")
	f.StringVar(&file.ContentType, "content-type", "application/octet-stream", "MIME type")
	f.Int64Var(&file.Length, "length", 0, "size in bytes")
	f.StringVar(&file.UploadedBy, "uploaded-by", "", "uploader user ID")
	_ = cmd.MarkFlagRequired("workspace")
	_ = cmd.MarkFlagRequired("filename")
	return cmd
}

func filesDeleteCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.files.Delete(cmd.Context(), args[0])
		},
	}
}
