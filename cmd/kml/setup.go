package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"entuKaart/internal/modules/setup/application/port"
	"entuKaart/internal/modules/setup/application/usecase"
	"entuKaart/internal/modules/setup/domain"
	"entuKaart/internal/modules/setup/infrastructure"
	"entuKaart/internal/platform/broker"
)

func newSetupCmd(opts *rootOptions) *cobra.Command {
	var assumeYes bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create the missing map application records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetup(cmd, opts, assumeYes)
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "apply without asking for confirmation")
	return cmd
}

func runSetup(cmd *cobra.Command, opts *rootOptions, assumeYes bool) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Setup failed: %v\n", err)
		return err
	}
	defer a.closeLog()

	a.out.Header("🚀 Entu Map App Setup")
	a.out.Rule()
	a.printConfiguration()

	ctx := cmd.Context()
	state, err := a.discovery.Load()
	switch {
	case errors.Is(err, port.ErrNoDiscovery):
		a.out.Warning("No discovery results at " + a.discovery.Path() + ", running discovery first")
		state, err = usecase.NewDiscoverUseCase(a.store, a.blueprint, a.out).Execute(ctx)
		if err != nil {
			a.out.Error("Setup failed: " + err.Error())
			return err
		}
	case err != nil:
		a.out.Error("Setup failed: " + err.Error())
		return err
	default:
		a.out.Success("Loaded discovery results from " + a.discovery.Path())
	}

	runID := uuid.NewString()
	events, closeEvents := a.eventPublisher()
	defer closeEvents()
	setup := usecase.NewSetupUseCase(a.store, a.blueprint, a.out, events, runID)

	a.out.Section("Setup Plan")
	for _, item := range setup.Plan(state) {
		if item.Exists {
			a.out.Detail("blue", "⏭️  Found existing "+item.Label)
		} else {
			a.out.Detail("blue", "✅ Create "+item.Label)
		}
	}

	if !assumeYes && !a.out.Confirm(cmd.InOrStdin(), "Proceed with remaining setup?") {
		a.out.Warning("Setup cancelled")
		return nil
	}

	report, applyErr := setup.Apply(ctx, state)
	// IDs recorded before a failure are kept so the next run resumes from them.
	if err := a.discovery.Save(state); err != nil {
		a.out.Error("Setup failed: " + err.Error())
		return err
	}
	if applyErr != nil {
		a.out.Error("Setup failed: " + applyErr.Error())
		return applyErr
	}

	a.out.Header("🎉 Map app setup completed successfully!")
	a.out.Section("Summary")
	for _, t := range a.blueprint.Types {
		a.out.Detail("blue", fmt.Sprintf("%s entity: %s", domain.Title(t.Name), state.Entity(domain.TypeKey(t.Name))))
	}
	a.out.Detail("blue", fmt.Sprintf("Created %d records (run %s)", report.TotalCreated(), report.RunID))
	a.out.Info("Your map application structure is now ready!")
	a.out.Detail("green", "You can now use the KML import plugin to create maps and locations.")
	return nil
}

// eventPublisher streams setup events to Kafka when brokers are configured.
func (a *app) eventPublisher() (port.EventPublisher, func()) {
	if len(a.cfg.Kafka.Brokers) == 0 {
		return infrastructure.NopEventPublisher{}, func() {}
	}
	producer := broker.NewKafkaProducer(a.cfg.Kafka.Brokers, a.cfg.Kafka.SetupTopic)
	return infrastructure.NewBrokerEventPublisher(producer), func() { _ = producer.Close() }
}
