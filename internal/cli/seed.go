package cli

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"pantry/internal/config"
	"pantry/internal/database"
	"pantry/internal/domain/auth"
	"pantry/internal/domain/catalog"
	"pantry/internal/domain/inventory"
	"pantry/internal/domain/recipe"
	"pantry/internal/domain/shopping"
	jwtsvc "pantry/internal/pkg/jwt"
	"pantry/internal/pkg/mailer"
	"pantry/internal/pkg/validator"
)

//go:embed seed.yaml
var defaultSeed []byte

// ErrAlreadySeeded is returned when the seed user already exists.
var ErrAlreadySeeded = errors.New("seed user already exists")

type SeedFile struct {
	User       SeedUser       `yaml:"user"`
	Categories []string       `yaml:"categories" validate:"dive,required"`
	Locations  []string       `yaml:"locations" validate:"dive,required"`
	Stores     []string       `yaml:"stores" validate:"dive,required"`
	Units      []SeedUnit     `yaml:"units" validate:"dive"`
	Products   []SeedProduct  `yaml:"products" validate:"dive"`
	Inventory  []SeedStock    `yaml:"inventory" validate:"dive"`
	Shopping   []SeedShopping `yaml:"shopping" validate:"dive"`
	Recipes    []SeedRecipe   `yaml:"recipes" validate:"dive"`
}

type SeedUser struct {
	Email    string `yaml:"email" validate:"required,email"`
	Password string `yaml:"password" validate:"required,min=8"`
	Name     string `yaml:"name"`
}

type SeedUnit struct {
	Name         string `yaml:"name" validate:"required"`
	Abbreviation string `yaml:"abbreviation"`
}

type SeedProduct struct {
	Name     string `yaml:"name" validate:"required"`
	Category string `yaml:"category"`
	Location string `yaml:"location"`
	Unit     string `yaml:"unit"`
}

type SeedStock struct {
	Product       string `yaml:"product" validate:"required"`
	Quantity      string `yaml:"quantity" validate:"required,numeric"`
	ExpiresInDays int    `yaml:"expires_in_days" validate:"min=0"`
}

type SeedShopping struct {
	Product  string `yaml:"product" validate:"required_without=Name"`
	Name     string `yaml:"name"`
	Quantity string `yaml:"quantity" validate:"omitempty,numeric"`
	Store    string `yaml:"store"`
}

type SeedRecipe struct {
	Title       string           `yaml:"title" validate:"required"`
	Global      bool             `yaml:"global"`
	Course      string           `yaml:"course"`
	Cuisine     string           `yaml:"cuisine"`
	Servings    int              `yaml:"servings" validate:"min=0"`
	Tags        []string         `yaml:"tags"`
	Ingredients []SeedIngredient `yaml:"ingredients"`
	Steps       []string         `yaml:"steps"`
}

type SeedIngredient struct {
	Heading string `yaml:"heading"`
	Amount  string `yaml:"amount"`
	Unit    string `yaml:"unit"`
	Product string `yaml:"product"`
	Name    string `yaml:"name"`
	Notes   string `yaml:"notes"`
}

// ParseSeed decodes and validates a seed document.
func ParseSeed(data []byte) (*SeedFile, error) {
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if errs := validator.Validate(&f); errs != nil {
		keys := make([]string, 0, len(errs))
		for k, v := range errs {
			keys = append(keys, k+"="+v)
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("invalid seed: %s", strings.Join(keys, ", "))
	}
	return &f, nil
}

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo data",
		Long: `Create a demo user with master data, stock, a shopping list and recipes.

Without --file the built-in demo set is used. Recipes marked global are
visible to every user.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := defaultSeed
			if file != "" {
				b, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				data = b
			}
			seed, err := ParseSeed(data)
			if err != nil {
				return err
			}

			cfg, db, err := rootOpts.open()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}
			return RunSeed(cmd.Context(), db, cfg, seed, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "seed YAML file")
	return cmd
}

// RunSeed writes the seed through the domain services so the same rules
// apply as for API requests.
func RunSeed(ctx context.Context, db *gorm.DB, cfg *config.Config, f *SeedFile, out io.Writer) error {
	users := auth.NewUserRepository(db)
	authService := auth.NewService(users, jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL), mailer.NewConsoleMailer(), cfg.AppURL, cfg.ResetTokenTTL)

	res, err := authService.Register(ctx, auth.RegisterRequest{Email: f.User.Email, Password: f.User.Password, Name: f.User.Name})
	if errors.Is(err, auth.ErrEmailAlreadyExists) {
		return ErrAlreadySeeded
	}
	if err != nil {
		return fmt.Errorf("register %s: %w", f.User.Email, err)
	}
	owner := res.User.ID
	fmt.Fprintf(out, "user created: %s / %s\n", f.User.Email, f.User.Password)

	s := &seeder{}

	categories := catalog.NewCategoryService(db)
	s.categories, err = createNamed(f.Categories, func(name string) (int64, error) {
		row, err := categories.Create(ctx, owner, catalog.NamedInput{Name: name})
		if err != nil {
			return 0, err
		}
		return row.ID, nil
	})
	if err != nil {
		return err
	}

	locations := catalog.NewLocationService(db)
	s.locations, err = createNamed(f.Locations, func(name string) (int64, error) {
		row, err := locations.Create(ctx, owner, catalog.NamedInput{Name: name})
		if err != nil {
			return 0, err
		}
		return row.ID, nil
	})
	if err != nil {
		return err
	}

	stores := catalog.NewStoreService(db)
	s.stores, err = createNamed(f.Stores, func(name string) (int64, error) {
		row, err := stores.Create(ctx, owner, catalog.NamedInput{Name: name})
		if err != nil {
			return 0, err
		}
		return row.ID, nil
	})
	if err != nil {
		return err
	}

	unitService := catalog.NewUnitService(db)
	s.units = make(map[string]int64, len(f.Units))
	for _, u := range f.Units {
		in := catalog.NamedInput{Name: u.Name}
		if u.Abbreviation != "" {
			in.Abbreviation = &u.Abbreviation
		}
		row, err := unitService.Create(ctx, owner, in)
		if err != nil {
			return fmt.Errorf("unit %q: %w", u.Name, err)
		}
		s.units[u.Name] = row.ID
	}

	products := catalog.NewProductService(db)
	s.products = make(map[string]int64, len(f.Products))
	for _, p := range f.Products {
		in := catalog.ProductInput{Name: p.Name}
		if in.CategoryID, err = lookup(s.categories, "category", p.Category); err != nil {
			return err
		}
		if in.DefaultLocationID, err = lookup(s.locations, "location", p.Location); err != nil {
			return err
		}
		if in.DefaultUnitID, err = lookup(s.units, "unit", p.Unit); err != nil {
			return err
		}
		row, err := products.Create(ctx, owner, in)
		if err != nil {
			return fmt.Errorf("product %q: %w", p.Name, err)
		}
		s.products[p.Name] = row.ID
	}

	stock := inventory.NewService(db)
	for _, st := range f.Inventory {
		id, err := lookup(s.products, "product", st.Product)
		if err != nil {
			return err
		}
		qty, err := decimal.NewFromString(st.Quantity)
		if err != nil {
			return fmt.Errorf("inventory %q quantity: %w", st.Product, err)
		}
		in := inventory.ItemInput{ProductID: *id, Quantity: qty}
		if st.ExpiresInDays > 0 {
			exp := time.Now().UTC().AddDate(0, 0, st.ExpiresInDays)
			in.ExpiresAt = &exp
		}
		if _, err := stock.Create(ctx, owner, in); err != nil {
			return fmt.Errorf("inventory %q: %w", st.Product, err)
		}
	}

	list := shopping.NewService(db, stock, nil)
	for _, item := range f.Shopping {
		in := shopping.ItemInput{Name: item.Name}
		if in.ProductID, err = lookup(s.products, "product", item.Product); err != nil {
			return err
		}
		if in.StoreID, err = lookup(s.stores, "store", item.Store); err != nil {
			return err
		}
		if item.Quantity != "" {
			qty, err := decimal.NewFromString(item.Quantity)
			if err != nil {
				return fmt.Errorf("shopping %q quantity: %w", item.Name, err)
			}
			in.Quantity = decimal.NewNullDecimal(qty)
		}
		if _, err := list.Create(ctx, owner, in); err != nil {
			return fmt.Errorf("shopping item: %w", err)
		}
	}

	recipes := recipe.NewService(db, products, stock, list, nil)
	for _, r := range f.Recipes {
		in, err := s.recipeInput(r)
		if err != nil {
			return err
		}
		var recipeOwner *int64
		if !r.Global {
			recipeOwner = &owner
		}
		rec, err := recipes.Create(ctx, recipeOwner, in)
		if err != nil {
			return fmt.Errorf("recipe %q: %w", r.Title, err)
		}
		fmt.Fprintf(out, "recipe created: %s (%s)\n", rec.Title, rec.Slug)
	}

	fmt.Fprintf(out, "seed completed: categories=%d locations=%d stores=%d units=%d products=%d inventory=%d shopping=%d recipes=%d\n",
		len(f.Categories), len(f.Locations), len(f.Stores), len(f.Units), len(f.Products), len(f.Inventory), len(f.Shopping), len(f.Recipes))
	return nil
}

type seeder struct {
	categories map[string]int64
	locations  map[string]int64
	stores     map[string]int64
	units      map[string]int64
	products   map[string]int64
}

// createNamed creates each name once and returns the name to id map.
func createNamed(names []string, create func(name string) (int64, error)) (map[string]int64, error) {
	ids := make(map[string]int64, len(names))
	for _, name := range names {
		id, err := create(name)
		if err != nil {
			return nil, fmt.Errorf("create %q: %w", name, err)
		}
		ids[name] = id
	}
	return ids, nil
}

func lookup(ids map[string]int64, kind, name string) (*int64, error) {
	if name == "" {
		return nil, nil
	}
	id, ok := ids[name]
	if !ok {
		return nil, fmt.Errorf("unknown %s %q", kind, name)
	}
	return &id, nil
}

// recipeInput maps seed names to ids. Global recipes keep their rows as
// free text since catalog rows belong to a single user.
func (s *seeder) recipeInput(r SeedRecipe) (recipe.RecipeInput, error) {
	in := recipe.RecipeInput{
		Title: strPtr(r.Title),
		Tags:  r.Tags,
	}
	if r.Course != "" {
		in.CourseName = strPtr(r.Course)
	}
	if r.Cuisine != "" {
		in.CuisineName = strPtr(r.Cuisine)
	}
	if r.Servings > 0 {
		servings := r.Servings
		in.Servings = &servings
	}

	for _, ing := range r.Ingredients {
		if ing.Heading != "" {
			in.Ingredients = append(in.Ingredients, recipe.IngredientRow{Type: recipe.TypeHeading, Heading: strPtr(ing.Heading)})
			continue
		}

		row := recipe.IngredientRow{Type: recipe.TypeItem}
		if ing.Amount != "" {
			amount := recipe.FlexString(ing.Amount)
			row.Amount = &amount
		}
		if ing.Name != "" {
			row.Name = strPtr(ing.Name)
		}
		if ing.Notes != "" {
			row.Notes = strPtr(ing.Notes)
		}
		if !r.Global {
			var err error
			if row.UnitID, err = lookup(s.units, "unit", ing.Unit); err != nil {
				return in, err
			}
			if row.ProductID, err = lookup(s.products, "product", ing.Product); err != nil {
				return in, err
			}
		}
		in.Ingredients = append(in.Ingredients, row)
	}

	for _, step := range r.Steps {
		in.Steps = append(in.Steps, recipe.StepText(step))
	}
	return in, nil
}

func strPtr(s string) *string { return &s }
