package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	cl "foundry/internal/cli"
	"foundry/internal/config"
	"foundry/internal/syncq"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL
	if profile, err := cl.LoadProfile(); err == nil && profile.APIBaseURL != "" && os.Getenv("FOUNDRY_API_BASE_URL") == "" {
		apiBase = profile.APIBaseURL
	}

	root := &cobra.Command{
		Use:          "foundry",
		Short:        "Idle factory CLI client",
		SilenceUsage: true,
	}

	root.AddCommand(
		newStatusCmd(&apiBase),
		newOrdersCmd(&apiBase),
		newShipCmd(&apiBase),
		newWorkersCmd(&apiBase),
		newLinesCmd(&apiBase),
		newUpgradesCmd(&apiBase),
		newMaterialsCmd(&apiBase),
		newResearchCmd(&apiBase),
		newStrikeCmd(&apiBase),
		newNewsCmd(&apiBase),
		newSyncCmd(&apiBase),
		newConfigCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func requestCtx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

func newStatusCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the factory dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			snap, err := newClient(apiBase).State(ctx)
			if err != nil {
				return err
			}
			renderStatus(snap)
			return nil
		},
	}
}

func newOrdersCmd(apiBase *string) *cobra.Command {
	orders := &cobra.Command{
		Use:     "orders",
		Short:   "Customer order commands",
		Aliases: []string{"order"},
	}

	orders.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available orders and the production queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			snap, err := newClient(apiBase).State(ctx)
			if err != nil {
				return err
			}
			renderOrders(snap)
			return nil
		},
	})

	orders.AddCommand(&cobra.Command{
		Use:   "accept [id]",
		Short: "Accept an available order into the production queue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := intFromArgsOrPrompt(args, "Order ID")
			if err != nil {
				return err
			}
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			snap, err := newClient(apiBase).AcceptOrder(ctx, id)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method: "POST",
					Path:   "/v1/actions/accept-order",
					Body:   map[string]any{"order_id": id},
				})
			}
			printSuccess(fmt.Sprintf("Order %d queued. Queue length: %d.", id, len(snap.ProductionQueue)))
			return nil
		},
	})

	return orders
}

func newShipCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ship [vehicle]",
		Short: "Load pallets onto a vehicle and dispatch it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			client := newClient(apiBase)
			snap, err := client.State(ctx)
			if err != nil {
				return err
			}

			vehicleID := ""
			if len(args) > 0 {
				vehicleID = strings.ToLower(strings.TrimSpace(args[0]))
			} else {
				options := make([]string, 0, len(snap.Vehicles))
				for id := range snap.Vehicles {
					options = append(options, id)
				}
				vehicleID, err = promptChoice("Vehicle", options, "wheelbarrow")
				if err != nil {
					return err
				}
			}

			if len(snap.Pallets) == 0 {
				printWarn("Warehouse is empty; nothing to ship.")
				return nil
			}
			renderPallets(snap)
			pallets := map[string]int{}
			for {
				product, err := promptOptional("Product (blank to finish)")
				if err != nil {
					return err
				}
				if product == "" {
					break
				}
				count, err := promptInt("Pallets", 1)
				if err != nil {
					return err
				}
				pallets[product] = count
			}
			if len(pallets) == 0 {
				printWarn("Nothing loaded.")
				return nil
			}

			body := map[string]any{"vehicle_id": vehicleID, "pallets": pallets}
			out, err := client.Ship(ctx, vehicleID, pallets)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method: "POST",
					Path:   "/v1/actions/ship",
					Body:   body,
				})
			}
			last := out.Shipments[len(out.Shipments)-1]
			printSuccess(fmt.Sprintf("Shipment %d dispatched via %s, worth %s credits, arriving %s.",
				last.ID, vehicleID, formatMicros(last.TotalValueMicros), last.ArrivalTime.Local().Format(time.Kitchen)))
			return nil
		},
	}
}

func newWorkersCmd(apiBase *string) *cobra.Command {
	workers := &cobra.Command{
		Use:     "workers",
		Short:   "Workforce commands",
		Aliases: []string{"worker"},
	}

	workers.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			snap, err := newClient(apiBase).State(ctx)
			if err != nil {
				return err
			}
			renderWorkers(snap)
			return nil
		},
	})

	workers.AddCommand(&cobra.Command{
		Use:   "hire",
		Short: "Hire the next candidate",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			snap, err := newClient(apiBase).HireWorker(ctx)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method: "POST",
					Path:   "/v1/actions/hire-worker",
				})
			}
			hired := snap.Workers[len(snap.Workers)-1]
			printSuccess(fmt.Sprintf("Hired %s (worker %d).", hired.Name, hired.ID))
			return nil
		},
	})

	workers.AddCommand(&cobra.Command{
		Use:   "assign [worker] [line]",
		Short: "Assign a worker to a line (line 0 unassigns)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			workerID, err := intFromArgsOrPrompt(args, "Worker ID")
			if err != nil {
				return err
			}
			lineID := 0
			if len(args) > 1 {
				lineID, err = strconv.Atoi(strings.TrimSpace(args[1]))
				if err != nil {
					return fmt.Errorf("invalid line id: %q", args[1])
				}
			} else {
				lineID, err = promptInt("Line ID (0 to unassign)", 0)
				if err != nil {
					return err
				}
			}
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			_, err = newClient(apiBase).AssignWorker(ctx, workerID, lineID)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method: "POST",
					Path:   "/v1/actions/assign-worker",
					Body:   map[string]any{"worker_id": workerID, "line_id": lineID},
				})
			}
			if lineID == 0 {
				printSuccess(fmt.Sprintf("Worker %d sent to the break room.", workerID))
			} else {
				printSuccess(fmt.Sprintf("Worker %d assigned to line %d.", workerID, lineID))
			}
			return nil
		},
	})

	workers.AddCommand(&cobra.Command{
		Use:   "train [worker]",
		Short: "Raise a worker's efficiency or stamina",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workerID, err := intFromArgsOrPrompt(args, "Worker ID")
			if err != nil {
				return err
			}
			stat, err := promptChoice("Stat", []string{"efficiency", "stamina"}, "efficiency")
			if err != nil {
				return err
			}
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			_, err = newClient(apiBase).UpgradeWorker(ctx, workerID, stat)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method: "POST",
					Path:   "/v1/actions/upgrade-worker",
					Body:   map[string]any{"worker_id": workerID, "stat": stat},
				})
			}
			printSuccess(fmt.Sprintf("Worker %d trained: %s.", workerID, stat))
			return nil
		},
	})

	return workers
}

func newLinesCmd(apiBase *string) *cobra.Command {
	lines := &cobra.Command{
		Use:     "lines",
		Short:   "Production line commands",
		Aliases: []string{"line"},
	}

	lines.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List production lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			snap, err := newClient(apiBase).State(ctx)
			if err != nil {
				return err
			}
			renderLines(snap)
			return nil
		},
	})

	lines.AddCommand(&cobra.Command{
		Use:   "upgrade [id]",
		Short: "Raise a line's efficiency",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := intFromArgsOrPrompt(args, "Line ID")
			if err != nil {
				return err
			}
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			_, err = newClient(apiBase).UpgradeLine(ctx, lineID)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method: "POST",
					Path:   "/v1/actions/upgrade-line",
					Body:   map[string]any{"line_id": lineID},
				})
			}
			printSuccess(fmt.Sprintf("Line %d upgraded.", lineID))
			return nil
		},
	})

	return lines
}

func newUpgradesCmd(apiBase *string) *cobra.Command {
	upgrades := &cobra.Command{
		Use:     "upgrades",
		Short:   "Factory upgrade commands",
		Aliases: []string{"upgrade"},
	}

	upgrades.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List purchasable upgrades",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			snap, err := newClient(apiBase).State(ctx)
			if err != nil {
				return err
			}
			renderUpgrades(snap)
			return nil
		},
	})

	upgrades.AddCommand(&cobra.Command{
		Use:   "buy [id]",
		Short: "Purchase an upgrade",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := stringFromArgsOrPrompt(args, "Upgrade ID")
			if err != nil {
				return err
			}
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			_, err = newClient(apiBase).PurchaseUpgrade(ctx, id)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method: "POST",
					Path:   "/v1/actions/purchase-upgrade",
					Body:   map[string]any{"upgrade_id": id},
				})
			}
			printSuccess(fmt.Sprintf("Purchased %s.", id))
			return nil
		},
	})

	return upgrades
}

func newMaterialsCmd(apiBase *string) *cobra.Command {
	materials := &cobra.Command{
		Use:     "materials",
		Short:   "Raw material commands",
		Aliases: []string{"material"},
	}

	materials.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show raw material stock and invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			snap, err := newClient(apiBase).State(ctx)
			if err != nil {
				return err
			}
			renderMaterials(snap)
			return nil
		},
	})

	materials.AddCommand(&cobra.Command{
		Use:   "order [material] [quantity]",
		Short: "Order raw materials from the supplier",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			material, err := stringFromArgsOrPrompt(args, "Material")
			if err != nil {
				return err
			}
			quantity := 0
			if len(args) > 1 {
				quantity, err = strconv.Atoi(strings.TrimSpace(args[1]))
				if err != nil {
					return fmt.Errorf("invalid quantity: %q", args[1])
				}
			} else {
				quantity, err = promptInt("Quantity", 1)
				if err != nil {
					return err
				}
			}
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			snap, err := newClient(apiBase).OrderMaterials(ctx, material, quantity)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method: "POST",
					Path:   "/v1/actions/order-materials",
					Body:   map[string]any{"material": material, "quantity": quantity},
				})
			}
			inv := snap.Invoices[len(snap.Invoices)-1]
			printSuccess(fmt.Sprintf("Invoice %d: %d x %s for %s credits. Pay it to start delivery.",
				inv.ID, inv.Quantity, inv.ItemName, formatMicros(inv.TotalCostMicros)))
			return nil
		},
	})

	materials.AddCommand(&cobra.Command{
		Use:   "pay [invoice]",
		Short: "Pay an unpaid invoice",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := intFromArgsOrPrompt(args, "Invoice ID")
			if err != nil {
				return err
			}
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			_, err = newClient(apiBase).PayInvoice(ctx, id)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method: "POST",
					Path:   "/v1/actions/pay-invoice",
					Body:   map[string]any{"invoice_id": id},
				})
			}
			printSuccess(fmt.Sprintf("Invoice %d paid. Delivery en route.", id))
			return nil
		},
	})

	return materials
}

func newResearchCmd(apiBase *string) *cobra.Command {
	research := &cobra.Command{
		Use:   "research",
		Short: "Research lab commands",
	}

	research.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List research projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			snap, err := newClient(apiBase).State(ctx)
			if err != nil {
				return err
			}
			renderResearch(snap)
			return nil
		},
	})

	research.AddCommand(&cobra.Command{
		Use:   "start [project]",
		Short: "Fund a research project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := stringFromArgsOrPrompt(args, "Project ID")
			if err != nil {
				return err
			}
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			_, err = newClient(apiBase).StartResearch(ctx, id)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method: "POST",
					Path:   "/v1/actions/start-research",
					Body:   map[string]any{"project_id": id},
				})
			}
			printSuccess(fmt.Sprintf("Research started: %s.", id))
			return nil
		},
	})

	return research
}

func newStrikeCmd(apiBase *string) *cobra.Command {
	strike := &cobra.Command{
		Use:   "strike",
		Short: "Labor dispute commands",
	}

	strike.AddCommand(&cobra.Command{
		Use:   "resolve",
		Short: "Pay the strike demand and restart the factory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			snap, err := newClient(apiBase).ResolveStrike(ctx)
			if err != nil {
				return queueOnNetworkError(err, syncq.Command{
					Method: "POST",
					Path:   "/v1/actions/resolve-strike",
				})
			}
			printSuccess(fmt.Sprintf("Strike resolved. Balance: %s credits.", formatMicros(snap.MoneyMicros)))
			return nil
		},
	})

	return strike
}

func newNewsCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "news",
		Short: "Show recent industry headlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestCtx(cmd)
			defer cancel()
			headlines, err := newClient(apiBase).Headlines(ctx)
			if err != nil {
				return err
			}
			if len(headlines) == 0 {
				printInfo("No headlines yet.")
				return nil
			}
			for _, h := range headlines {
				fmt.Printf("%s  %s\n", h.At.Local().Format("15:04"), h.Text)
			}
			return nil
		},
	}
}

func newSyncCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Replay locally queued actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := syncq.Load()
			if err != nil {
				return err
			}
			if len(queue) == 0 {
				printInfo("Sync queue is empty.")
				return nil
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			remaining := make([]syncq.Command, 0, len(queue))
			success := 0
			for _, q := range queue {
				if _, err := client.Do(ctx, q.Method, q.Path, q.Body); err != nil {
					remaining = append(remaining, q)
					printError(fmt.Sprintf("Sync failed for %s %s: %v", q.Method, q.Path, err))
					continue
				}
				success++
			}
			if err := syncq.Save(remaining); err != nil {
				return err
			}
			printSuccess(fmt.Sprintf("Sync complete: replayed=%d remaining=%d", success, len(remaining)))
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Local client configuration",
	}

	cfg.AddCommand(&cobra.Command{
		Use:   "set-api [url]",
		Short: "Persist the API base URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSpace(args[0])
			if url == "" {
				return fmt.Errorf("url is required")
			}
			if err := cl.SaveProfile(cl.Profile{APIBaseURL: url}); err != nil {
				return err
			}
			printSuccess("API base URL saved.")
			return nil
		},
	})

	cfg.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Remove the local profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cl.ClearProfile(); err != nil {
				return err
			}
			printSuccess("Profile cleared.")
			return nil
		},
	})

	return cfg
}

func queueOnNetworkError(err error, queued syncq.Command) error {
	if err == nil {
		return nil
	}
	if isAPIStructuredError(err) {
		return err
	}
	if pushErr := syncq.Push(queued); pushErr != nil {
		return fmt.Errorf("request failed and could not be queued: %w", err)
	}
	printWarn(fmt.Sprintf("Server unreachable; action queued. Run `foundry sync` later. (%v)", err))
	return nil
}

func isAPIStructuredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "api status")
}

func intFromArgsOrPrompt(args []string, label string) (int, error) {
	if len(args) > 0 {
		v, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %q", strings.ToLower(label), args[0])
		}
		return v, nil
	}
	return promptInt(label, 1)
}

func stringFromArgsOrPrompt(args []string, label string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}
	return promptRequired(label)
}
