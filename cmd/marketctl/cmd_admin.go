package main

import (
	"fmt"
	"strings"

	"github.com/router-for-me/ModelMarket/internal/app"
	"github.com/router-for-me/ModelMarket/internal/market"
	"github.com/router-for-me/ModelMarket/internal/views"
	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Moderate uploaded models",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List models by moderation status",
		RunE:  runAdminList,
	}
	listCmd.Flags().String("status", views.FilterPending, "Status filter: "+strings.Join(views.StatusFilterOptions(), ", "))

	setStatusCmd := &cobra.Command{
		Use:   "set-status <id> <pending|approved|rejected>",
		Short: "Change a model's moderation status",
		Args:  cobra.ExactArgs(2),
		RunE:  runAdminSetStatus,
	}
	setStatusCmd.Flags().String("reason", "", "Rejection reason (required when rejecting)")

	adminCmd.AddCommand(listCmd)
	adminCmd.AddCommand(setStatusCmd)
	return adminCmd
}

func runAdminList(cmd *cobra.Command, args []string) error {
	filter, _ := cmd.Flags().GetString("status")
	filter = strings.ToLower(strings.TrimSpace(filter))
	if !views.ValidStatusFilter(filter) {
		return fmt.Errorf("invalid status filter %q", filter)
	}
	return withServices(cmd, func(s *app.Services) error {
		admin := views.NewAdmin(s.Client)
		var (
			state   views.AdminState
			errLoad error
		)
		if filter == views.FilterPending {
			state, errLoad = admin.Load(cmd.Context())
		} else {
			state, errLoad = admin.SetStatusFilter(cmd.Context(), filter)
		}
		if errLoad != nil {
			return errLoad
		}
		return printJSON(cmd.OutOrStdout(), state.View())
	})
}

func runAdminSetStatus(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])
	status, ok := market.ParseStatus(args[1])
	if !ok {
		return fmt.Errorf("invalid status %q", args[1])
	}
	reason, _ := cmd.Flags().GetString("reason")

	return withServices(cmd, func(s *app.Services) error {
		admin := views.NewAdmin(s.Client)
		admin.SetReason(id, reason)
		state, err := admin.RequestStatus(cmd.Context(), id, status)
		if err != nil {
			if len(state.Notices) > 0 {
				return fmt.Errorf("%s", state.Notices[len(state.Notices)-1].Message)
			}
			return err
		}
		return printJSON(cmd.OutOrStdout(), state.View())
	})
}
