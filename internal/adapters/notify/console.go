package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/bingobot/internal/domain"
	"github.com/olekukonko/tablewriter"
)

const staleNote = "refresh failed, showing previous data"

// Console implementa ports.Notifier escribiendo cada informe en texto.
type Console struct {
	out   io.Writer
	table bool
	sort  domain.SortSpec
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table, sort: domain.DefaultSort()}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table, sort: domain.DefaultSort()}
}

// Notify imprime el informe en el modo configurado.
func (c *Console) Notify(_ context.Context, report domain.Report) error {
	if len(report.Valuations) == 0 {
		fmt.Fprintf(c.out, "[%s] no items evaluated\n", time.Now().Format("15:04:05"))
		return nil
	}

	ranked := report.Ranked(c.sort)
	if c.table {
		c.printFull(report, ranked)
	} else {
		c.printCompact(report, ranked)
	}
	return nil
}

// printCompact imprime una línea con el resumen y los mejores items.
func (c *Console) printCompact(report domain.Report, ranked []domain.Valuation) {
	now := time.Now().Format("15:04:05")
	profitable := countProfitable(ranked)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d items → profitable:%d priced:%d",
		now, len(ranked), profitable, report.Snapshot.Priced())
	if report.Stale {
		fmt.Fprintf(&sb, " [%s]", staleNote)
	}

	shown := 0
	for _, v := range ranked {
		if shown >= 3 || v.Status() != domain.StatusProfitable {
			break
		}
		fmt.Fprintf(&sb, " | %s %s/pt", v.ItemID, cppLabel(v))
		shown++
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla completa y el detalle por item.
func (c *Console) printFull(report domain.Report, ranked []domain.Valuation) {
	fmt.Fprintf(c.out, "\n[%s] %d items — %s\n",
		time.Now().Format("15:04:05"), len(ranked), c.sort.Label())
	fmt.Fprintf(c.out, "  Data last updated at %s\n",
		report.Snapshot.FetchedAt.Format("2006-01-02 15:04:05 MST"))
	if report.Stale {
		fmt.Fprintf(c.out, "  !! %s\n", staleNote)
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Item", "Market", "Prereq cost", "Net", "Points", "Coins/pt", "Status")

	for i, v := range ranked {
		table.Append(
			fmt.Sprintf("%d", i+1),
			v.ItemID,
			domain.FormatPrice(v.Prices.LowestActive),
			domain.FormatCoins(v.PrerequisiteCost),
			domain.FormatCoins(v.NetProfit),
			fmt.Sprintf("%d", v.PointsSpent),
			cppLabel(v),
			v.Status().String(),
		)
	}
	table.Render()

	for _, v := range ranked {
		if v.Status() == domain.StatusProfitable {
			continue
		}
		fmt.Fprintf(c.out, "  %s: %s\n", v.ItemID, strings.Join(domain.SummaryLines(v), " "))
	}
	fmt.Fprintln(c.out)
}

// --- helpers ---

func countProfitable(vals []domain.Valuation) int {
	n := 0
	for _, v := range vals {
		if v.Status() == domain.StatusProfitable {
			n++
		}
	}
	return n
}

func cppLabel(v domain.Valuation) string {
	if v.PointsSpent <= 0 {
		return "N/A"
	}
	return domain.FormatCoins(v.CoinsPerPoint)
}
