package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
)

func adminCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Bootstrap users and workspaces",
	}
	cmd.AddCommand(createUserCmd(cfgPath), addMemberCmd(cfgPath))
	return cmd
}

func createUserCmd(cfgPath *string) *cobra.Command {
	var (
		user     domain.User
		role     string
		password string
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user that can log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := domain.Role(role)
			switch r {
			case domain.RoleAdmin, domain.RoleMember, domain.RoleGuest:
			default:
				return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
			}

			a, err := loadApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			hash, err := a.authAdapter.HashPassword(password)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			user.ID = uuid.New().String()
			user.PasswordHash = hash
			user.Role = r
			user.Active = true
			user.CreatedAt = now
			user.UpdatedAt = now

			if err := a.users.Save(cmd.Context(), &user); err != nil {
				return err
			}
			cmd.Println(user.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&user.Email, "email", "", "login email")
	f.StringVar(&user.Name, "name", "", "display name")
	f.StringVar(&user.Title, "title", "", "job title")
	f.StringVar(&password, "password", "", "initial password")
	f.StringVar(&role, "role", string(domain.RoleMember), "admin, member or guest")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func addMemberCmd(cfgPath *string) *cobra.Command {
	var workspaceName string

	cmd := &cobra.Command{
		Use:   "add-member <workspace-id> <user-id>",
		Short: "Add a user to a workspace, creating the workspace if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if workspaceName != "" {
				now := time.Now().UTC()
				ws := &domain.Workspace{ID: args[0], Name: workspaceName, CreatedAt: now, UpdatedAt: now}
				if err := a.memberships.SaveWorkspace(cmd.Context(), ws); err != nil {
					return err
				}
			}
			return a.memberships.AddMember(cmd.Context(), args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&workspaceName, "workspace-name", "", "create or rename the workspace")
	return cmd
}
