package recipe

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pantry/internal/domain/catalog"
	"pantry/internal/domain/shopping"
	"pantry/internal/pkg/storage"
)

type productSearcher interface {
	Search(ctx context.Context, ownerID int64, q string, take int) ([]catalog.ProductHit, error)
}

type stockChecker interface {
	InStock(ctx context.Context, ownerID int64, productIDs []int64) (map[int64]bool, error)
}

type shoppingAdder interface {
	AddMany(ctx context.Context, ownerID int64, inputs []shopping.ItemInput) ([]shopping.Item, error)
}

type Service struct {
	db       *gorm.DB
	repo     *Repository
	products productSearcher
	stock    stockChecker
	shopping shoppingAdder
	images   storage.Storage
}

func NewService(db *gorm.DB, products productSearcher, stock stockChecker, list shoppingAdder, images storage.Storage) *Service {
	return &Service{
		db:       db,
		repo:     NewRepository(db),
		products: products,
		stock:    stock,
		shopping: list,
		images:   images,
	}
}

// Create writes a new recipe. ownerID nil creates a global recipe.
func (s *Service) Create(ctx context.Context, ownerID *int64, in RecipeInput) (*Recipe, error) {
	return s.save(ctx, ownerID, 0, in)
}

func (s *Service) Update(ctx context.Context, ownerID *int64, id int64, in RecipeInput) (*Recipe, error) {
	return s.save(ctx, ownerID, id, in)
}

func (s *Service) Get(ctx context.Context, ownerID *int64, id int64) (*Recipe, error) {
	return s.repo.GetVisible(ctx, ownerID, id)
}

func (s *Service) GetBySlug(ctx context.Context, ownerID *int64, slug string) (*Recipe, error) {
	return s.repo.GetBySlug(ctx, ownerID, slug)
}

func (s *Service) List(ctx context.Context, ownerID *int64, f ListFilter) ([]Recipe, int64, error) {
	return s.repo.List(ctx, ownerID, f)
}

func (s *Service) Delete(ctx context.Context, ownerID *int64, id int64) error {
	rec, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	s.dropImage(ctx, rec.ImageURL)
	return nil
}

func (s *Service) SetFavorite(ctx context.Context, ownerID *int64, id int64, favorite bool) (*Recipe, error) {
	if err := s.repo.UpdateColumn(ctx, ownerID, id, "favorite", favorite); err != nil {
		return nil, err
	}
	return s.repo.GetVisible(ctx, ownerID, id)
}

func (s *Service) LinkIngredient(ctx context.Context, ownerID *int64, recipeID, ingredientID int64, productID *int64) (*Recipe, error) {
	if _, err := s.repo.GetOwned(ctx, ownerID, recipeID); err != nil {
		return nil, err
	}
	if ownerID != nil {
		err := catalog.VerifyOwned(s.db.WithContext(ctx), *ownerID, catalog.ProductRef(productID))
		if errors.Is(err, catalog.ErrInvalidReference) {
			return nil, ErrInvalidReference
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.LinkIngredient(ctx, recipeID, ingredientID, productID); err != nil {
		return nil, err
	}
	return s.repo.GetVisible(ctx, ownerID, recipeID)
}

func (s *Service) Taxonomy(ctx context.Context, ownerID *int64) (*Taxonomy, error) {
	return s.repo.Taxonomy(ctx, ownerID)
}

func (s *Service) SearchProducts(ctx context.Context, ownerID int64, q string, take int) ([]catalog.ProductHit, error) {
	return s.products.Search(ctx, ownerID, q, take)
}

// Availability checks every item row against the caller's inventory.
// Pending rows are never in stock.
func (s *Service) Availability(ctx context.Context, ownerID int64, id int64) (*Availability, error) {
	rec, err := s.repo.GetVisible(ctx, &ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.availability(ctx, ownerID, rec)
}

func (s *Service) availability(ctx context.Context, ownerID int64, rec *Recipe) (*Availability, error) {
	productIDs := make([]int64, 0, len(rec.Ingredients))
	for _, ing := range rec.Ingredients {
		if ing.Type == TypeItem && ing.ProductID != nil {
			productIDs = append(productIDs, *ing.ProductID)
		}
	}

	held, err := s.stock.InStock(ctx, ownerID, productIDs)
	if err != nil {
		return nil, err
	}

	out := &Availability{RecipeID: rec.ID, Ingredients: []IngredientAvailability{}}
	for _, ing := range rec.Ingredients {
		if ing.Type != TypeItem {
			continue
		}
		row := IngredientAvailability{
			IngredientID: ing.ID,
			Idx:          ing.Idx,
			RawText:      ing.RawText,
			ProductID:    ing.ProductID,
			LinkStatus:   ing.LinkStatus,
			InStock:      ing.ProductID != nil && held[*ing.ProductID],
		}
		out.Ingredients = append(out.Ingredients, row)
		out.Total++
		if row.InStock {
			out.InStock++
		} else {
			out.Missing++
		}
	}
	return out, nil
}

// AddMissingToShoppingList puts every ingredient the caller does not hold on
// their shopping list. Product and unit links are kept only for the caller's
// own recipes, since global recipes point at another catalog.
func (s *Service) AddMissingToShoppingList(ctx context.Context, ownerID int64, id int64) ([]shopping.Item, error) {
	rec, err := s.repo.GetVisible(ctx, &ownerID, id)
	if err != nil {
		return nil, err
	}
	avail, err := s.availability(ctx, ownerID, rec)
	if err != nil {
		return nil, err
	}

	missing := make(map[int64]bool, avail.Missing)
	for _, a := range avail.Ingredients {
		if !a.InStock {
			missing[a.IngredientID] = true
		}
	}

	own := rec.OwnerID != nil && *rec.OwnerID == ownerID
	note := fmt.Sprintf("for %s", rec.Title)
	inputs := make([]shopping.ItemInput, 0, len(missing))
	for _, ing := range rec.Ingredients {
		if !missing[ing.ID] {
			continue
		}

		in := shopping.ItemInput{Name: shoppingName(ing), Notes: &note}
		if own {
			in.ProductID = ing.ProductID
			in.UnitID = ing.UnitID
		}
		if ing.Amount != nil {
			if q, err := decimal.NewFromString(*ing.Amount); err == nil && q.IsPositive() {
				in.Quantity = decimal.NewNullDecimal(q)
			}
		}
		inputs = append(inputs, in)
	}

	return s.shopping.AddMany(ctx, ownerID, inputs)
}

func shoppingName(ing Ingredient) string {
	switch {
	case ing.Product != nil:
		return ing.Product.Name
	case ing.CandidateName != nil && *ing.CandidateName != "":
		return *ing.CandidateName
	case ing.Name != nil && *ing.Name != "":
		return *ing.Name
	default:
		return ing.RawText
	}
}

// UploadImage stores the file and points the recipe at it, removing the previous image.
func (s *Service) UploadImage(ctx context.Context, ownerID *int64, id int64, fh *multipart.FileHeader) (*Recipe, error) {
	rec, err := s.repo.GetOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	img, err := storage.OpenImage(fh, "recipes")
	if err != nil {
		return nil, err
	}
	defer img.Body.Close()

	url, err := s.images.Put(ctx, img.Key, img.ContentType, img.Body)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	if err := s.repo.UpdateColumn(ctx, ownerID, id, "image_url", url); err != nil {
		_ = s.images.Delete(ctx, img.Key)
		return nil, err
	}
	s.dropImage(ctx, rec.ImageURL)

	return s.repo.GetVisible(ctx, ownerID, id)
}

func (s *Service) dropImage(ctx context.Context, url *string) {
	if url == nil || s.images == nil {
		return
	}
	key := s.images.KeyFromURL(*url)
	if key == "" {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		log.Printf("recipe_image delete_failed key=%s err=%v", key, err)
	}
}
