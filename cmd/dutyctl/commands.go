package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	catalogapp "github.com/simudouane/backend/internal/application/catalog"
	simulationapp "github.com/simudouane/backend/internal/application/simulation"
	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/simulation"
	"github.com/simudouane/backend/internal/infrastructure/logger"
	"github.com/simudouane/backend/internal/infrastructure/seed"
)

// computeOutput is the JSON document printed by compute and preview.
type computeOutput struct {
	Breakdown customs.DutyBreakdown `json:"breakdown"`
	Levies    decimal.Decimal       `json:"levies"`
}

func runCompute(_ context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("compute", flag.ContinueOnError)
	file := fs.String("f", "-", "YAML declaration with an inline product profile ('-' for stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := readInput(*file)
	if err != nil {
		return err
	}
	var decl customs.ImportDeclaration
	if err := yaml.Unmarshal(data, &decl); err != nil {
		return fmt.Errorf("parse declaration: %w", err)
	}

	breakdown, err := a.calc.Compute(decl)
	if err != nil {
		return err
	}
	return printJSON(computeOutput{Breakdown: breakdown, Levies: breakdown.Levies()})
}

func runSeed(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	file := fs.String("f", "", "Catalogue YAML file (default: built-in catalogue)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		c   *seed.Catalog
		err error
	)
	if *file == "" {
		c, err = seed.DefaultCatalog()
	} else {
		var data []byte
		if data, err = readInput(*file); err == nil {
			c, err = seed.ParseCatalog(data)
		}
	}
	if err != nil {
		return err
	}

	result, err := a.seeder.Run(ctx, c)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runCategories(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("categories", flag.ContinueOnError)
	var filter catalogapp.CategoryListFilter
	fs.StringVar(&filter.Search, "search", "", "Filter by name")
	fs.IntVar(&filter.Page, "page", 1, "Page number")
	fs.IntVar(&filter.PageSize, "page-size", 50, "Page size (max 100)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	items, total, err := a.categories.List(ctx, filter)
	if err != nil {
		return err
	}
	return printJSON(page(items, total, filter.Page, filter.PageSize))
}

func runProducts(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	var filter catalogapp.ProductListFilter
	fs.StringVar(&filter.Search, "search", "", "Filter by name or HS code")
	fs.StringVar(&filter.TariffSpecies, "species", "", "Filter by tariff species (VG1, MP, BID, BCC)")
	fs.Func("category", "Filter by category ID", func(s string) error {
		id, err := uuid.Parse(s)
		filter.CategoryID = &id
		return err
	})
	fs.IntVar(&filter.Page, "page", 1, "Page number")
	fs.IntVar(&filter.PageSize, "page-size", 50, "Page size (max 100)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	items, total, err := a.products.List(ctx, filter)
	if err != nil {
		return err
	}
	return printJSON(page(items, total, filter.Page, filter.PageSize))
}

func runPreview(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	product := fs.String("product", "", "Product ID or HS code")
	file := fs.String("f", "-", "YAML declaration amounts ('-' for stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	productID, err := resolveProduct(ctx, a, *product)
	if err != nil {
		return err
	}
	in, err := readDeclaration(*file)
	if err != nil {
		return err
	}

	resp, err := a.simulations.Preview(ctx, simulationapp.PreviewRequest{ProductID: productID, DeclarationInput: in})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func runSimulate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	var actor actorFlags
	actor.register(fs)
	email := fs.String("email", "", "Address the paid result is sent to")
	product := fs.String("product", "", "Product ID or HS code")
	file := fs.String("f", "-", "YAML declaration amounts ('-' for stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	owner, err := actor.owner(*email)
	if err != nil {
		return err
	}
	ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), owner.UserID.String())
	productID, err := resolveProduct(ctx, a, *product)
	if err != nil {
		return err
	}
	in, err := readDeclaration(*file)
	if err != nil {
		return err
	}

	resp, err := a.simulations.Create(ctx, owner, simulationapp.CreateSimulationRequest{ProductID: productID, DeclarationInput: in})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func runList(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	var actor actorFlags
	actor.register(fs)
	filter := listFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	who, err := actor.actor()
	if err != nil {
		return err
	}

	items, total, err := a.simulations.List(ctx, who, *filter)
	if err != nil {
		return err
	}
	return printJSON(page(items, total, filter.Page, filter.PageSize))
}

func runShow(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	var actor actorFlags
	actor.register(fs)
	id := fs.String("id", "", "Simulation ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	who, simID, err := actor.target(*id)
	if err != nil {
		return err
	}

	resp, err := a.simulations.Get(ctx, who, simID)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func runUpdate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	var actor actorFlags
	actor.register(fs)
	id := fs.String("id", "", "Simulation ID")

	var req simulationapp.UpdateSimulationRequest
	fs.Func("product", "New product ID", func(s string) error {
		v, err := uuid.Parse(s)
		req.ProductID = &v
		return err
	})
	decimalFlag(fs, "value", "Declared value", &req.DeclaredValue)
	decimalFlag(fs, "transport", "Transport cost", &req.TransportCost)
	decimalFlag(fs, "handling", "Handling cost", &req.HandlingCost)
	decimalFlag(fs, "weight", "Weight in tons", &req.WeightInTons)
	fs.Func("unique-id", "Operator holds a unique identification number (true/false)", func(s string) error {
		v, err := strconv.ParseBool(s)
		req.HasUniqueID = &v
		return err
	})
	fs.Func("country", "Country of origin", func(s string) error {
		req.CountryOfOrigin = &s
		return nil
	})
	fs.Func("mode", "Transport mode (maritime, aerien, terrestre)", func(s string) error {
		req.TransportMode = &s
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return err
	}
	who, simID, err := actor.target(*id)
	if err != nil {
		return err
	}

	resp, err := a.simulations.UpdateInputs(ctx, who, simID, req)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func runDelete(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	var actor actorFlags
	actor.register(fs)
	id := fs.String("id", "", "Simulation ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	who, simID, err := actor.target(*id)
	if err != nil {
		return err
	}

	if err := a.simulations.Delete(ctx, who, simID); err != nil {
		return err
	}
	a.log.Info("Simulation deleted", zap.String("simulation_id", simID.String()))
	return nil
}

func runConfirm(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("confirm", flag.ContinueOnError)
	var actor actorFlags
	actor.register(fs)
	id := fs.String("id", "", "Simulation ID")
	var req simulationapp.ConfirmPaymentRequest
	fs.StringVar(&req.PaymentCode, "code", "", "Payment code received for the simulation")
	fs.StringVar(&req.PaymentMethod, "method", "", "Payment method (orange, mtn)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	who, simID, err := actor.target(*id)
	if err != nil {
		return err
	}
	ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), who.UserID.String())

	resp, err := a.simulations.ConfirmPayment(ctx, who, simID, req)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func runStatement(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("statement", flag.ContinueOnError)
	var actor actorFlags
	actor.register(fs)
	id := fs.String("id", "", "Simulation ID")
	out := fs.String("o", "", "Output PDF file (default: simulation-<id>.pdf)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	who, simID, err := actor.target(*id)
	if err != nil {
		return err
	}

	data, err := a.simulations.Statement(ctx, who, simID)
	if err != nil {
		return err
	}
	if *out == "" {
		*out = "simulation-" + simID.String() + ".pdf"
	}
	return writeOutput(a, *out, data)
}

func runExport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	var actor actorFlags
	actor.register(fs)
	filter := listFlags(fs)
	out := fs.String("o", "historique.xlsx", "Output XLSX file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	who, err := actor.actor()
	if err != nil {
		return err
	}

	data, err := a.simulations.ExportHistory(ctx, who, *filter)
	if err != nil {
		return err
	}
	return writeOutput(a, *out, data)
}

// actorFlags identifies the caller of a simulation command.
type actorFlags struct {
	user  string
	admin bool
}

func (f *actorFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.user, "user", os.Getenv("SIMU_USER_ID"), "Acting user ID (env SIMU_USER_ID)")
	fs.BoolVar(&f.admin, "admin", false, "Act as administrator")
}

func (f *actorFlags) actor() (simulation.Actor, error) {
	if f.user == "" {
		return simulation.Actor{}, fmt.Errorf("%w: -user is required", errUsage)
	}
	id, err := uuid.Parse(f.user)
	if err != nil {
		return simulation.Actor{}, fmt.Errorf("%w: invalid -user: %v", errUsage, err)
	}
	return simulation.Actor{UserID: id, IsAdmin: f.admin}, nil
}

func (f *actorFlags) owner(email string) (simulation.Owner, error) {
	who, err := f.actor()
	if err != nil {
		return simulation.Owner{}, err
	}
	return simulation.Owner{UserID: who.UserID, Email: email}, nil
}

func (f *actorFlags) target(rawID string) (simulation.Actor, uuid.UUID, error) {
	who, err := f.actor()
	if err != nil {
		return simulation.Actor{}, uuid.Nil, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return simulation.Actor{}, uuid.Nil, fmt.Errorf("%w: invalid -id: %v", errUsage, err)
	}
	return who, id, nil
}

func listFlags(fs *flag.FlagSet) *simulationapp.ListFilter {
	filter := &simulationapp.ListFilter{}
	fs.StringVar(&filter.Search, "search", "", "Filter by product name or payment code")
	fs.Func("paid", "Filter by payment status (true/false)", func(s string) error {
		v, err := strconv.ParseBool(s)
		filter.IsPaid = &v
		return err
	})
	fs.Func("owner", "Filter by owner ID (administrators only)", func(s string) error {
		id, err := uuid.Parse(s)
		filter.UserID = &id
		return err
	})
	fs.Func("product", "Filter by product ID", func(s string) error {
		id, err := uuid.Parse(s)
		filter.ProductID = &id
		return err
	})
	fs.IntVar(&filter.Page, "page", 1, "Page number")
	fs.IntVar(&filter.PageSize, "page-size", 20, "Page size (max 100)")
	return filter
}

func decimalFlag(fs *flag.FlagSet, name, usage string, dst **decimal.Decimal) {
	fs.Func(name, usage, func(s string) error {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		*dst = &d
		return nil
	})
}

// resolveProduct accepts a product ID or an HS code.
func resolveProduct(ctx context.Context, a *app, ref string) (uuid.UUID, error) {
	if ref == "" {
		return uuid.Nil, fmt.Errorf("%w: -product is required", errUsage)
	}
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	p, err := a.products.GetByHSCode(ctx, ref)
	if err != nil {
		return uuid.Nil, fmt.Errorf("product %s: %w", ref, err)
	}
	return p.ID, nil
}

func readDeclaration(path string) (simulationapp.DeclarationInput, error) {
	var in simulationapp.DeclarationInput
	data, err := readInput(path)
	if err != nil {
		return in, err
	}
	if err := yaml.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parse declaration: %w", err)
	}
	return in, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(a *app, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	a.log.Info("File written", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

type pageOutput[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func page[T any](items []T, total int64, pageNo, pageSize int) pageOutput[T] {
	if items == nil {
		items = []T{}
	}
	return pageOutput[T]{Items: items, Total: total, Page: pageNo, PageSize: pageSize}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
