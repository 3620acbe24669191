package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"MockShop/internal/client"
	"MockShop/internal/config"
)

type cli struct {
	stdout io.Writer
	stderr io.Writer

	svc *client.Services
}

func main() {
	cfg, err := config.LoadCLI()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	c := &cli{
		stdout: os.Stdout,
		stderr: os.Stderr,
		svc:    client.NewServices(cfg.ProductsURL, cfg.UsersURL, cfg.ClientTimeout),
	}
	os.Exit(c.run(context.Background(), os.Args[1:]))
}

func (c *cli) run(ctx context.Context, args []string) int {
	if len(args) < 1 {
		c.printUsage()
		return 1
	}

	var err error
	switch args[0] {
	case "health":
		err = c.health(ctx)
	case "products":
		err = c.handleProducts(ctx, args[1:])
	case "users":
		err = c.handleUsers(ctx, args[1:])
	case "help":
		c.printUsage()
		return 0
	default:
		fmt.Fprintf(c.stderr, "unknown command: %s\n", args[0])
		c.printUsage()
		return 1
	}

	if err != nil {
		var ae *client.APIError
		if errors.As(err, &ae) {
			fmt.Fprintf(c.stderr, "Error: %s (status %d", ae.Message, ae.Status)
			if ae.Code != "" {
				fmt.Fprintf(c.stderr, ", %s", ae.Code)
			}
			fmt.Fprintln(c.stderr, ")")
		} else {
			fmt.Fprintf(c.stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (c *cli) printUsage() {
	fmt.Fprintln(c.stderr, `Usage: shopctl <command> [args]

Commands:
  health                               check both services
  products list [-category C] [-limit N]
  products get <id>
  products create -name N -price P -category C [-stock S] [-description D]
  products update <id> [-name N] [-price P] [-category C] [-stock S] [-description D]
  products delete <id>
  users list [-role R] [-active true|false] [-limit N]
  users get <id>
  users create -username U -email E -first F -last L [-role R]
  users login -username U -password P

Environment (or .env): PRODUCTS_URL, USERS_URL, CLIENT_TIMEOUT`)
}

func (c *cli) health(ctx context.Context) error {
	rep := c.svc.CheckAll(ctx)

	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SERVICE\tHEALTHY\tDETAIL")
	for _, row := range []struct {
		name string
		st   client.ServiceStatus
	}{{"products", rep.ProductService}, {"users", rep.UserService}} {
		detail := row.st.Error
		if row.st.Details != nil {
			detail = row.st.Details.Service + " " + row.st.Details.Status
		}
		fmt.Fprintf(tw, "%s\t%t\t%s\n", row.name, row.st.Healthy, detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !rep.AllHealthy {
		return errors.New("not all services are healthy")
	}
	return nil
}

func (c *cli) handleProducts(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: shopctl products <list|get|create|update|delete>")
	}
	p := c.svc.Products

	switch args[0] {
	case "list":
		fs := c.flags("products list")
		category := fs.String("category", "", "filter by category (case-insensitive)")
		limit := fs.Int("limit", 0, "max rows")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		page, err := p.List(ctx, client.ProductQuery{Category: *category, Limit: *limit})
		if err != nil {
			return err
		}
		return c.printProducts(page.Items, page.Total)

	case "get", "delete":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		var prod client.Product
		if args[0] == "get" {
			prod, err = p.Get(ctx, id)
		} else {
			prod, err = p.Delete(ctx, id)
		}
		if err != nil {
			return err
		}
		return c.printProducts([]client.Product{prod}, 1)

	case "create":
		fs := c.flags("products create")
		in := productFlags(fs)
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		prod, err := p.Create(ctx, in.input(fs))
		if err != nil {
			return err
		}
		return c.printProducts([]client.Product{prod}, 1)

	case "update":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		fs := c.flags("products update")
		in := productFlags(fs)
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		prod, err := p.Update(ctx, id, in.input(fs))
		if err != nil {
			return err
		}
		return c.printProducts([]client.Product{prod}, 1)

	default:
		return fmt.Errorf("unknown products command: %s", args[0])
	}
}

func (c *cli) handleUsers(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: shopctl users <list|get|create|login>")
	}
	u := c.svc.Users

	switch args[0] {
	case "list":
		fs := c.flags("users list")
		role := fs.String("role", "", "filter by role")
		active := fs.String("active", "", "filter by active flag (true|false)")
		limit := fs.Int("limit", 0, "max rows")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		q := client.UserQuery{Role: *role, Limit: *limit}
		if *active != "" {
			b, err := strconv.ParseBool(*active)
			if err != nil {
				return fmt.Errorf("invalid -active %q", *active)
			}
			q.Active = &b
		}
		page, err := u.List(ctx, q)
		if err != nil {
			return err
		}
		return c.printUsers(page.Items, page.Total)

	case "get":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		usr, err := u.Get(ctx, id)
		if err != nil {
			return err
		}
		return c.printUsers([]client.User{usr}, 1)

	case "create":
		fs := c.flags("users create")
		username := fs.String("username", "", "username")
		email := fs.String("email", "", "email")
		first := fs.String("first", "", "first name")
		last := fs.String("last", "", "last name")
		role := fs.String("role", "", "customer or admin")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		in := client.UserInput{
			Username:  username,
			Email:     email,
			FirstName: first,
			LastName:  last,
		}
		if *role != "" {
			in.Role = role
		}
		usr, err := u.Create(ctx, in)
		if err != nil {
			return err
		}
		return c.printUsers([]client.User{usr}, 1)

	case "login":
		fs := c.flags("users login")
		username := fs.String("username", "", "username")
		password := fs.String("password", "", "password")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		res, err := u.Authenticate(ctx, *username, *password)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "token: %s\n", res.Token)
		return c.printProfile(res.User)

	default:
		return fmt.Errorf("unknown users command: %s", args[0])
	}
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

type productArgs struct {
	name, category, description *string
	price                       *float64
	stock                       *int
}

func productFlags(fs *flag.FlagSet) productArgs {
	return productArgs{
		name:        fs.String("name", "", "product name"),
		category:    fs.String("category", "", "category"),
		description: fs.String("description", "", "description"),
		price:       fs.Float64("price", 0, "price"),
		stock:       fs.Int("stock", 0, "units in stock"),
	}
}

// input sends only the flags that were given on the command line.
func (a productArgs) input(fs *flag.FlagSet) client.ProductInput {
	var in client.ProductInput
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			in.Name = a.name
		case "category":
			in.Category = a.category
		case "description":
			in.Description = a.description
		case "price":
			in.Price = a.price
		case "stock":
			in.Stock = a.stock
		}
	})
	return in
}

func (c *cli) printProducts(items []client.Product, total int) error {
	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Category, p.Price, p.Stock)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if total > len(items) {
		fmt.Fprintf(c.stdout, "(%d of %d)\n", len(items), total)
	}
	return nil
}

func (c *cli) printUsers(items []client.User, total int) error {
	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tNAME\tROLE\tACTIVE")
	for _, u := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s %s\t%s\t%t\n", u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Role, u.IsActive)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if total > len(items) {
		fmt.Fprintf(c.stdout, "(%d of %d)\n", len(items), total)
	}
	return nil
}

// printProfile shows the authentication projection, which carries no
// active flag or creation time.
func (c *cli) printProfile(u client.User) error {
	tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tNAME\tROLE")
	fmt.Fprintf(tw, "%d\t%s\t%s\t%s %s\t%s\n", u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Role)
	return tw.Flush()
}

func parseID(args []string) (int, error) {
	if len(args) < 1 {
		return 0, errors.New("missing id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}
