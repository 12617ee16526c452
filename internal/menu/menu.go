package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/justsurfingit/hh-vacancy-tracker/internal/models"
	"github.com/justsurfingit/hh-vacancy-tracker/internal/services"
	"github.com/justsurfingit/hh-vacancy-tracker/pkg/logging"
)

const menuText = `
Choose an action:
1. Companies and their vacancy count
2. All vacancies
3. Average salary
4. Vacancies with salary above average
5. Vacancies matching a keyword
0. Exit`

// Menu is the interactive console over the store's read operations.
type Menu struct {
	store services.VacancyReader
	in    *bufio.Scanner
	out   io.Writer
	log   *logging.Logger
}

func New(store services.VacancyReader, in io.Reader, out io.Writer, log *logging.Logger) *Menu {
	if log == nil {
		log = logging.NewNop()
	}
	return &Menu{
		store: store,
		in:    bufio.NewScanner(in),
		out:   out,
		log:   log,
	}
}

// Run loops until the user picks 0, input ends or ctx is cancelled.
// A failing action is reported and the loop goes on.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprintln(m.out, menuText)
		choice, ok := m.prompt("Enter action number: ")
		if !ok {
			return m.in.Err()
		}

		if choice == "0" {
			return nil
		}

		action, known := m.action(choice)
		if !known {
			fmt.Fprintln(m.out, "Invalid choice.")
			continue
		}

		if err := m.safely(ctx, action); err != nil {
			m.log.Error("menu action failed", "choice", choice, "err", err)
			fmt.Fprintf(m.out, "Error: %v\n", err)
		}
	}
}

func (m *Menu) action(choice string) (func(context.Context) error, bool) {
	switch choice {
	case "1":
		return m.showCompanies, true
	case "2":
		return m.showAllVacancies, true
	case "3":
		return m.showAvgSalary, true
	case "4":
		return m.showHigherSalary, true
	case "5":
		return m.showKeyword, true
	default:
		return nil, false
	}
}

// safely turns a panic inside an action into an error.
func (m *Menu) safely(ctx context.Context, action func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return action(ctx)
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		fmt.Fprintln(m.out)
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) showCompanies(ctx context.Context) error {
	counts, err := m.store.GetCompaniesAndVacanciesCount(ctx)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Fprintln(m.out, "No companies with vacancies.")
		return nil
	}

	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPANY\tVACANCIES")
	for _, c := range counts {
		fmt.Fprintf(w, "%s\t%d\n", c.CompanyName, c.VacancyCount)
	}
	return w.Flush()
}

func (m *Menu) showAllVacancies(ctx context.Context) error {
	listings, err := m.store.GetAllVacancies(ctx)
	if err != nil {
		return err
	}
	return m.printListings(listings)
}

func (m *Menu) showAvgSalary(ctx context.Context) error {
	avg, err := m.store.GetAvgSalary(ctx)
	if err != nil {
		return err
	}
	if avg == nil {
		fmt.Fprintln(m.out, "Average salary: no salary data.")
		return nil
	}
	fmt.Fprintf(m.out, "Average salary: %.2f\n", *avg)
	return nil
}

func (m *Menu) showHigherSalary(ctx context.Context) error {
	listings, err := m.store.GetVacanciesWithHigherSalary(ctx)
	if err != nil {
		return err
	}
	return m.printListings(listings)
}

func (m *Menu) showKeyword(ctx context.Context) error {
	keyword, ok := m.prompt("Enter keyword: ")
	if !ok {
		return nil
	}
	listings, err := m.store.GetVacanciesWithKeyword(ctx, keyword)
	if err != nil {
		return err
	}
	return m.printListings(listings)
}

func (m *Menu) printListings(listings []models.VacancyListing) error {
	if len(listings) == 0 {
		fmt.Fprintln(m.out, "No vacancies found.")
		return nil
	}

	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPANY\tTITLE\tSALARY\tURL")
	for _, l := range listings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.CompanyName, l.Title, formatSalary(l.Salary), l.URL)
	}
	return w.Flush()
}

func formatSalary(salary *int) string {
	if salary == nil {
		return "-"
	}
	return strconv.Itoa(*salary)
}
