package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/notekeep"
	"github.com/aretw0/notekeep/pkg/adapters/fs"
	"github.com/aretw0/notekeep/pkg/core"
)

var statusDiagram bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of the service and its store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts := serviceOptions(cfg)
		store, err := notekeep.Init(cfg.Path, opts...)
		if err != nil {
			fatal("Failed to open storage", err)
		}
		svc, err := notekeep.New(cfg.Path, append(opts, notekeep.WithStore(store))...)
		if err != nil {
			fatal("Failed to open notes", err)
		}

		if statusDiagram {
			storeState, _ := introspectState(store).(fs.StoreState)
			svcState, _ := svc.State().(core.ServiceState)

			config := introspection.DefaultDiagramConfig()
			config.SecondaryID = "notekeep"
			config.SecondaryLabel = "Notekeep Topology"
			fmt.Println(introspection.TreeDiagram(buildStatusTree(svcState, storeState), config))
			return
		}

		report := map[string]any{
			svc.ComponentType(): svc.State(),
		}
		if comp, ok := store.(introspection.Component); ok {
			report[comp.ComponentType()] = introspectState(store)
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

func introspectState(v any) any {
	if intro, ok := v.(introspection.Introspectable); ok {
		return intro.State()
	}
	return nil
}

type statusNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []statusNode
}

// buildStatusTree lays out the service and store for the Mermaid diagram.
// Status values must match the classes in introspection.DefaultStyles().
func buildStatusTree(svc core.ServiceState, store fs.StoreState) statusNode {
	storeStatus := "running"
	if store.ReadOnly {
		storeStatus = "suspended"
	}
	persist := "running"
	if svc.WrittenGeneration < svc.Generation {
		persist = "pending"
	}

	return statusNode{
		Name:   "Service",
		Status: persist,
		Metadata: map[string]string{
			"type":  "process",
			"notes": fmt.Sprintf("%d", svc.NoteCount),
			"sort":  fmt.Sprintf("%s %s", svc.SortOption, svc.SortDirection),
		},
		Children: []statusNode{
			{
				Name:   "Store",
				Status: storeStatus,
				Metadata: map[string]string{
					"type":   "container",
					"path":   store.Path,
					"writes": fmt.Sprintf("%d", store.Writes),
				},
			},
		},
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusDiagram, "diagram", false, "Print a Mermaid diagram instead of JSON")
}
