package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
)

func searchCmd(cfgPath *string) *cobra.Command {
	var (
		userID string
		raw    domain.RawSearchParams
		flags  searchFlags
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run one search as a user and print the JSON response",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				raw.Query = args[0]
			}
			flags.apply(cmd, &raw)

			a, err := loadApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.searchService.Search(cmd.Context(), userID, raw)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&userID, "user", "u", "", "ID of the user searching (required)")
	f.StringVarP(&raw.WorkspaceID, "workspace", "w", "", "workspace ID (required)")
	f.StringVar(&raw.Channel, "in", "", "channel ID")
	f.StringVar(&raw.From, "from", "", "sender name or email")
	f.StringVar(&raw.Before, "before", "", "messages before YYYY-MM-DD")
	f.StringVar(&raw.After, "after", "", "messages after YYYY-MM-DD")
	f.StringVar(&raw.On, "on", "", "messages on YYYY-MM-DD")
	f.StringVar(&raw.FileType, "file-type", "", "file category or MIME type")
	f.StringVar(&raw.Limit, "limit", "", "results per kind")
	f.BoolVar(&flags.hasFile, "has-file", false, "only messages with attachments")
	f.BoolVar(&flags.hasLink, "has-link", false, "only messages with links")
	f.BoolVar(&flags.isDM, "dm", false, "only direct messages")
	f.BoolVar(&flags.isThreadReply, "thread-reply", false, "only messages with replies")
	f.BoolVar(&flags.isSaved, "saved", false, "only bookmarked messages")
	f.BoolVar(&flags.isPinned, "pinned", false, "only pinned messages")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}

type searchFlags struct {
	hasFile, hasLink, isDM, isThreadReply, isSaved, isPinned bool
}

// apply copies only the boolean flags that were set so unset ones stay absent
func (s searchFlags) apply(cmd *cobra.Command, raw *domain.RawSearchParams) {
	set := func(name string, v bool, dst *string) {
		if cmd.Flags().Changed(name) {
			*dst = strconv.FormatBool(v)
		}
	}
	set("has-file", s.hasFile, &raw.HasFile)
	set("has-link", s.hasLink, &raw.HasLink)
	set("dm", s.isDM, &raw.IsDirectMessage)
	set("thread-reply", s.isThreadReply, &raw.IsThreadReply)
	set("saved", s.isSaved, &raw.IsSaved)
	set("pinned", s.isPinned, &raw.IsPinned)
}
