package main

import (
	"fmt"
	"os"

	"github.com/router-for-me/ModelMarket/internal/app"
	"github.com/router-for-me/ModelMarket/internal/market"
	"github.com/router-for-me/ModelMarket/internal/views"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newModelsCmd() *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Browse and upload models",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List approved models",
		RunE:  runModelsList,
	}
	listCmd.Flags().String("category", "", "Category filter (all for none)")
	listCmd.Flags().String("pricing", "", "Pricing filter (all for none)")
	listCmd.Flags().String("search", "", "Search text")
	listCmd.Flags().Int("page", 0, "Page number")
	listCmd.Flags().Int("limit", 0, "Page size")

	showCmd := &cobra.Command{
		Use:   "show <id-or-slug>",
		Short: "Show one model with similar models",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelsShow,
	}

	mineCmd := &cobra.Command{
		Use:   "mine",
		Short: "List your uploads",
		RunE:  runModelsMine,
	}

	uploadCmd := &cobra.Command{
		Use:   "upload <file.yaml>",
		Short: "Upload a model described by a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelsUpload,
	}

	modelsCmd.AddCommand(listCmd)
	modelsCmd.AddCommand(showCmd)
	modelsCmd.AddCommand(mineCmd)
	modelsCmd.AddCommand(uploadCmd)
	return modelsCmd
}

// listParamsFromFlags builds ListParams; page and limit are sent only when given.
func listParamsFromFlags(cmd *cobra.Command) market.ListParams {
	flags := cmd.Flags()
	params := market.ListParams{}
	params.Category, _ = flags.GetString("category")
	params.Pricing, _ = flags.GetString("pricing")
	params.Search, _ = flags.GetString("search")
	if flags.Changed("page") {
		page, _ := flags.GetInt("page")
		params.Page = market.Int(page)
	}
	if flags.Changed("limit") {
		limit, _ := flags.GetInt("limit")
		params.Limit = market.Int(limit)
	}
	return params
}

func runModelsList(cmd *cobra.Command, args []string) error {
	params := listParamsFromFlags(cmd)
	return withServices(cmd, func(s *app.Services) error {
		env, err := s.Client.ListModels(cmd.Context(), params)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), env.Data)
	})
}

func runModelsShow(cmd *cobra.Command, args []string) error {
	return withServices(cmd, func(s *app.Services) error {
		view := views.NewDetail(s.Client).Load(cmd.Context(), args[0]).View()
		if view.Error != "" {
			return fmt.Errorf("%s", view.Error)
		}
		return printJSON(cmd.OutOrStdout(), view)
	})
}

func runModelsMine(cmd *cobra.Command, args []string) error {
	return withServices(cmd, func(s *app.Services) error {
		env, err := s.Client.ListMyModels(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), env.Data)
	})
}

// readUploadFile decodes an UploadRequest from a YAML file.
func readUploadFile(path string) (market.UploadRequest, error) {
	var req market.UploadRequest
	data, errRead := os.ReadFile(path)
	if errRead != nil {
		return req, fmt.Errorf("read upload file: %w", errRead)
	}
	if errUnmarshal := yaml.Unmarshal(data, &req); errUnmarshal != nil {
		return req, fmt.Errorf("parse upload file: %w", errUnmarshal)
	}
	if req.Name == "" {
		return req, fmt.Errorf("upload file: name is required")
	}
	return req, nil
}

func runModelsUpload(cmd *cobra.Command, args []string) error {
	req, err := readUploadFile(args[0])
	if err != nil {
		return err
	}
	return withServices(cmd, func(s *app.Services) error {
		env, errUpload := s.Client.UploadModel(cmd.Context(), req)
		if errUpload != nil {
			return errUpload
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"message": env.Message,
			"model":   env.Data.Model,
		})
	})
}
