package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"entuKaart/internal/modules/setup/application/usecase"
	"entuKaart/internal/modules/setup/domain"
)

func newDiscoverCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Scan the account and save what already exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDiscover(cmd, opts)
		},
	}
}

func runDiscover(cmd *cobra.Command, opts *rootOptions) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Discovery failed: %v\n", err)
		return err
	}
	defer a.closeLog()

	a.out.Header("🔍 Entu Environment Discovery")
	a.out.Rule()
	a.printConfiguration()

	state, err := usecase.NewDiscoverUseCase(a.store, a.blueprint, a.out).Execute(cmd.Context())
	if err != nil {
		a.out.Error("Discovery failed: " + err.Error())
		return err
	}
	if err := a.discovery.Save(state); err != nil {
		a.out.Error("Discovery failed: " + err.Error())
		return err
	}

	a.out.Header("🎉 Environment discovery completed successfully!")
	a.out.Section("Summary")
	a.out.Detail("blue", "Database: "+state.Entity(domain.DatabaseKey))
	a.out.Detail("blue", "Entity Definition: "+state.Entity(domain.EntityDefinitionKey))
	a.out.Detail("blue", "Property Definition: "+state.Entity(domain.PropertyDefinitionKey))
	a.out.Detail("blue", "Menu Definition: "+state.Entity(domain.MenuDefinitionKey))
	for _, t := range a.blueprint.Types {
		if id := state.Entity(domain.TypeKey(t.Name)); id != "" {
			a.out.Detail("yellow", fmt.Sprintf("Existing %s Entity: %s", domain.Title(t.Name), id))
		}
	}
	a.out.Detail("blue", fmt.Sprintf("Properties: %d, relationships: %d", len(state.Properties), len(state.Relationships)))
	a.out.Info("Discovery saved to " + a.discovery.Path())
	return nil
}
