package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"foundry/internal/game"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptOptional(label string) (string, error) {
	fmt.Printf("%s: ", label)
	text, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	sort.Strings(options)
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

func promptInt(label string, min int) (int, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("Value must be >= %d", min))
			continue
		}
		return v, nil
	}
}

func renderStatus(s game.State) {
	accent.Println("\n== FACTORY ==")
	fmt.Printf("Balance:        %s credits\n", formatMicros(s.MoneyMicros))
	fmt.Printf("Reputation:     %d\n", s.Reputation)
	fmt.Printf("Certification:  level %d\n", s.CertificationLevel)
	fmt.Printf("Power:          %d / %d MW\n", s.PowerUsageMW, s.PowerCapacityMW)
	used := 0
	for _, p := range s.Pallets {
		used += p.Quantity
	}
	fmt.Printf("Warehouse:      %d / %d pallet spaces used\n",
		used/game.UnitsPerPalletSpace, s.WarehouseCapacity)
	fmt.Printf("Shipped:        %d pallets lifetime\n", s.TotalPalletsShipped)

	if ev := s.ActiveEvent; ev != nil {
		fmt.Println()
		if ev.Type == game.EventWorkerStrike && !ev.Resolved {
			danger.Printf("EVENT: %s - %s (demand %s credits)\n",
				ev.Name, ev.Description, formatMicros(ev.StrikeDemandMicros))
		} else {
			warn.Printf("EVENT: %s - %s\n", ev.Name, ev.Description)
		}
	}

	fmt.Println()
	renderLines(s)
	fmt.Println()
	renderWorkers(s)
	fmt.Println()
}

func renderLines(s game.State) {
	accent.Println("Production Lines")
	fmt.Printf("%-4s %-24s %9s %8s %7s %7s %s\n", "ID", "PRODUCT", "PROGRESS", "DONE", "EFF", "WORKER", "STATUS")
	for _, l := range s.Lines {
		product := l.ProductName
		status := "running"
		switch {
		case l.Idle():
			product = "-"
			status = "idle"
		case l.BlockedByMaterials:
			status = danger.Sprint("blocked")
		case l.AssignedWorkerID == 0:
			status = warn.Sprint("no worker")
		}
		worker := "-"
		if l.AssignedWorkerID != 0 {
			worker = strconv.Itoa(l.AssignedWorkerID)
		}
		fmt.Printf("%-4d %-24s %8.1f%% %3d/%-4d %7.2f %7s %s\n",
			l.ID, truncate(product, 24), l.Progress, l.CompletedQuantity, l.Quantity,
			l.Efficiency, worker, status)
	}
}

func renderWorkers(s game.State) {
	accent.Println("Workers")
	fmt.Printf("%-4s %-14s %7s %8s %7s %7s %s\n", "ID", "NAME", "ENERGY", "WAGE", "EFF", "STAM", "LINE")
	for _, w := range s.Workers {
		line := "-"
		if w.AssignedLineID != 0 {
			line = strconv.Itoa(w.AssignedLineID)
		}
		energy := fmt.Sprintf("%.0f%%", w.Energy)
		if w.Energy <= 0 {
			energy = danger.Sprint("0%")
		}
		fmt.Printf("%-4d %-14s %7s %8s %7.2f %7.2f %s\n",
			w.ID, truncate(w.Name, 14), energy, formatMicros(w.WageMicros), w.Efficiency, w.Stamina, line)
	}
}

func renderOrders(s game.State) {
	accent.Println("\nAvailable Orders")
	if len(s.AvailableOrders) == 0 {
		printInfo("No orders on the board.")
	} else {
		fmt.Printf("%-4s %-24s %6s %12s %8s %s\n", "ID", "PRODUCT", "QTY", "REWARD", "TIME", "NOTES")
		for _, o := range s.AvailableOrders {
			notes := materialList(o.MaterialRequirements)
			if o.IsContract {
				notes = success.Sprintf("contract +%d rep", o.ReputationReward) + "  " + notes
			}
			fmt.Printf("%-4d %-24s %6d %12s %7.0fs %s\n",
				o.ID, truncate(o.ProductName, 24), o.Quantity, formatMicros(o.RewardMicros), o.TimeToProduce, notes)
		}
	}

	accent.Println("\nProduction Queue")
	if len(s.ProductionQueue) == 0 {
		printInfo("Queue is empty.")
	} else {
		for i, o := range s.ProductionQueue {
			fmt.Printf("%2d. %s x%d\n", i+1, o.ProductName, o.Quantity)
		}
	}
	fmt.Println()
}

func renderPallets(s game.State) {
	accent.Println("Warehouse")
	names := make([]string, 0, len(s.Pallets))
	for name := range s.Pallets {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Printf("%-24s %8s %12s\n", "PRODUCT", "UNITS", "VALUE/PALLET")
	for _, name := range names {
		p := s.Pallets[name]
		fmt.Printf("%-24s %8d %12s\n", truncate(name, 24), p.Quantity, formatMicros(p.ValueMicros))
	}
}

func renderUpgrades(s game.State) {
	accent.Println("\nUpgrades")
	ids := make([]string, 0, len(s.Upgrades))
	for id := range s.Upgrades {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	fmt.Printf("%-22s %-30s %5s %12s\n", "ID", "NAME", "LEVEL", "COST")
	for _, id := range ids {
		u := s.Upgrades[id]
		fmt.Printf("%-22s %-30s %5d %12s\n", u.ID, truncate(u.Name, 30), u.Level, formatMicros(u.CostMicros))
	}
	fmt.Println()
}

func renderMaterials(s game.State) {
	accent.Println("\nRaw Materials")
	if len(s.RawMaterials) == 0 {
		printInfo("No materials in stock.")
	} else {
		names := make([]string, 0, len(s.RawMaterials))
		for name := range s.RawMaterials {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%-24s %8d\n", name, s.RawMaterials[name])
		}
	}

	accent.Println("\nInvoices")
	if len(s.Invoices) == 0 {
		printInfo("No invoices.")
	} else {
		fmt.Printf("%-4s %-24s %8s %12s %-8s\n", "ID", "ITEM", "QTY", "TOTAL", "STATUS")
		for _, inv := range s.Invoices {
			status := inv.Status
			if status == "unpaid" {
				status = warn.Sprint(status)
			}
			fmt.Printf("%-4d %-24s %8d %12s %-8s\n",
				inv.ID, truncate(inv.ItemName, 24), inv.Quantity, formatMicros(inv.TotalCostMicros), status)
		}
	}
	fmt.Println()
}

func renderResearch(s game.State) {
	accent.Println("\nResearch Projects")
	ids := make([]string, 0, len(s.Research.Projects))
	for id := range s.Research.Projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	fmt.Printf("%-22s %-28s %12s %9s %-12s\n", "ID", "NAME", "COST", "PROGRESS", "STATUS")
	for _, id := range ids {
		p := s.Research.Projects[id]
		status := p.Status
		switch p.Status {
		case game.ResearchInProgress:
			status = warn.Sprint(status)
		case game.ResearchCompleted:
			status = success.Sprint(status)
		}
		fmt.Printf("%-22s %-28s %12s %8.1f%% %-12s\n",
			p.ID, truncate(p.Name, 28), formatMicros(p.CostMicros), p.Progress, status)
	}
	fmt.Println()
}

func materialList(reqs map[string]int) string {
	if len(reqs) == 0 {
		return ""
	}
	names := make([]string, 0, len(reqs))
	for name := range reqs {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s x%d", name, reqs[name]))
	}
	return strings.Join(parts, ", ")
}

func formatMicros(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := v / game.MicrosPerCredit
	frac := (v % game.MicrosPerCredit) / 10_000
	return fmt.Sprintf("%s%s.%02d", sign, comma(whole), frac)
}

func comma(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
