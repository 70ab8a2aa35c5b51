package recipe

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pantry/internal/domain/catalog"
	"pantry/internal/pkg/utils"
)

const (
	slugIndex       = "idx_recipes_owner_slug"
	maxSlugAttempts = 3
)

// save runs the write transaction, retrying when a concurrent writer claimed
// the allocated slug between probe and insert. recipeID 0 creates.
func (s *Service) save(ctx context.Context, ownerID *int64, recipeID int64, in RecipeInput) (*Recipe, error) {
	if recipeID == 0 && trimmed(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	var (
		id        int64
		prevImage *string
		err       error
	)
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		id, prevImage, err = s.writeOnce(ctx, ownerID, recipeID, in)
		if err == nil {
			break
		}
		if !utils.ViolatesIndex(err, slugIndex, "recipes.slug") {
			return nil, err
		}
		log.Printf("recipe_write slug_conflict attempt=%d recipe_id=%d", attempt, recipeID)
	}
	if err != nil {
		return nil, err
	}

	// The stored file goes only after commit, once nothing references it.
	if next := utils.TrimmedOrNil(in.ImageURL); prevImage != nil && (next == nil || *next != *prevImage) {
		s.dropImage(ctx, prevImage)
	}

	return s.repo.GetVisible(ctx, ownerID, id)
}

// writeOnce returns the written id and, on update, the image url it replaced.
func (s *Service) writeOnce(ctx context.Context, ownerID *int64, recipeID int64, in RecipeInput) (int64, *string, error) {
	var (
		id        int64
		prevImage *string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current *Recipe
		if recipeID != 0 {
			var r Recipe
			err := scopeOwner(tx.Where("id = ?", recipeID), ownerID).First(&r).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			current = &r
			prevImage = r.ImageURL
		}

		title, slug, err := resolveTitle(tx, ownerID, current, in.Title)
		if err != nil {
			return err
		}

		courseID, err := resolveTaxonomyID[Course](tx, ownerID, in.CourseID, in.CourseName)
		if err != nil {
			return err
		}
		cuisineID, err := resolveTaxonomyID[Cuisine](tx, ownerID, in.CuisineID, in.CuisineName)
		if err != nil {
			return err
		}
		tagIDs, err := resolveTagIDs(tx, ownerID, in.Tags)
		if err != nil {
			return err
		}
		if err := verifyCatalogRefs(tx, ownerID, in); err != nil {
			return err
		}

		fields := map[string]any{
			"title":               title,
			"slug":                slug,
			"source_url":          utils.TrimmedOrNil(in.SourceURL),
			"description":         utils.TrimmedOrNil(in.Description),
			"servings":            in.Servings,
			"yields":              utils.TrimmedOrNil(in.Yields),
			"image_url":           utils.TrimmedOrNil(in.ImageURL),
			"course_id":           courseID,
			"cuisine_id":          cuisineID,
			"key_ingredient_id":   in.KeyIngredientID,
			"key_ingredient_text": utils.TrimmedOrNil(in.KeyIngredientText),
		}

		if current == nil {
			r := Recipe{OwnerID: ownerID, Title: title, Slug: slug}
			if in.Favorite != nil {
				r.Favorite = *in.Favorite
			}
			if err := tx.Omit(clause.Associations).Create(&r).Error; err != nil {
				return err
			}
			id = r.ID
		} else {
			id = current.ID
			if in.Favorite != nil {
				fields["favorite"] = *in.Favorite
			}
		}

		if err := tx.Model(&Recipe{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		if err := replaceTags(tx, id, tagIDs); err != nil {
			return err
		}
		if err := replaceIngredients(tx, id, in.Ingredients); err != nil {
			return err
		}
		return replaceSteps(tx, id, in.Steps)
	})
	return id, prevImage, err
}

// resolveTitle keeps the stored title and slug unless the trimmed title changed.
func resolveTitle(tx *gorm.DB, ownerID *int64, current *Recipe, input *string) (string, string, error) {
	title := trimmed(input)

	if current != nil {
		if title == "" || title == current.Title {
			return current.Title, current.Slug, nil
		}
		slug, err := allocateSlug(tx, ownerID, title, current.ID)
		return title, slug, err
	}

	if title == "" {
		return "", "", ErrTitleRequired
	}
	slug, err := allocateSlug(tx, ownerID, title, 0)
	return title, slug, err
}

// verifyCatalogRefs checks product and unit ids against the owner's catalog.
// Global recipes are written by tooling and skip the check.
func verifyCatalogRefs(tx *gorm.DB, ownerID *int64, in RecipeInput) error {
	if ownerID == nil {
		return nil
	}

	refs := []catalog.Ref{catalog.ProductRef(in.KeyIngredientID)}
	for _, row := range in.Ingredients {
		if strings.EqualFold(row.Type, TypeHeading) {
			continue
		}
		refs = append(refs, catalog.ProductRef(row.ProductID), catalog.UnitRef(row.UnitID))
	}

	err := catalog.VerifyOwned(tx, *ownerID, refs...)
	if errors.Is(err, catalog.ErrInvalidReference) {
		return ErrInvalidReference
	}
	return err
}

func replaceTags(tx *gorm.DB, recipeID int64, tagIDs []int64) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&RecipeTag{}).Error; err != nil {
		return err
	}

	seen := make(map[int64]bool, len(tagIDs))
	links := make([]RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		links = append(links, RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if len(links) == 0 {
		return nil
	}
	return tx.Create(&links).Error
}

func replaceIngredients(tx *gorm.DB, recipeID int64, input []IngredientRow) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&Ingredient{}).Error; err != nil {
		return err
	}
	if len(input) == 0 {
		return nil
	}

	labels, err := unitLabels(tx, input)
	if err != nil {
		return err
	}

	rows := make([]Ingredient, len(input))
	for i, in := range input {
		rows[i] = buildIngredient(recipeID, i, in, labels)
	}
	return tx.Omit("Unit", "Product").Create(&rows).Error
}

func buildIngredient(recipeID int64, idx int, in IngredientRow, labels map[int64]string) Ingredient {
	if strings.EqualFold(strings.TrimSpace(in.Type), TypeHeading) {
		heading := trimmed(in.Heading)
		return Ingredient{
			RecipeID: recipeID,
			Idx:      idx,
			Type:     TypeHeading,
			Heading:  &heading,
			RawText:  heading,
		}
	}

	row := Ingredient{
		RecipeID:  recipeID,
		Idx:       idx,
		Type:      TypeItem,
		UnitID:    in.UnitID,
		ProductID: in.ProductID,
		Name:      utils.TrimmedOrNil(in.Name),
		Notes:     utils.TrimmedOrNil(in.Notes),
		Heading:   utils.TrimmedOrNil(in.Heading),
	}
	if in.Amount != nil {
		amount := string(*in.Amount)
		row.Amount = utils.TrimmedOrNil(&amount)
	}

	row.LinkStatus = LinkPending
	if row.ProductID != nil {
		row.LinkStatus = LinkLinked
	}

	row.CandidateName = utils.TrimmedOrNil(in.CandidateName)
	if row.CandidateName == nil {
		row.CandidateName = row.Name
	}

	if raw := trimmed(in.RawText); raw != "" {
		row.RawText = raw
	} else {
		row.RawText = synthesizeRawText(row, labels)
	}
	return row
}

// synthesizeRawText joins the present parts of "amount unit name notes".
func synthesizeRawText(row Ingredient, labels map[int64]string) string {
	parts := make([]string, 0, 4)
	if row.Amount != nil {
		parts = append(parts, *row.Amount)
	}
	if row.UnitID != nil && labels[*row.UnitID] != "" {
		parts = append(parts, labels[*row.UnitID])
	}
	if row.Name != nil {
		parts = append(parts, *row.Name)
	}
	if row.Notes != nil {
		parts = append(parts, *row.Notes)
	}

	if text := strings.Join(parts, " "); text != "" {
		return text
	}
	if row.Heading != nil {
		return *row.Heading
	}
	return ""
}

func unitLabels(tx *gorm.DB, input []IngredientRow) (map[int64]string, error) {
	ids := make([]int64, 0, len(input))
	for _, in := range input {
		if in.UnitID != nil {
			ids = append(ids, *in.UnitID)
		}
	}

	labels := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return labels, nil
	}

	var units []catalog.Unit
	if err := tx.Where("id IN ?", ids).Find(&units).Error; err != nil {
		return nil, err
	}
	for _, u := range units {
		labels[u.ID] = u.Label()
	}
	return labels, nil
}

func replaceSteps(tx *gorm.DB, recipeID int64, input []StepText) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&Step{}).Error; err != nil {
		return err
	}
	if len(input) == 0 {
		return nil
	}

	steps := make([]Step, len(input))
	for i, body := range input {
		steps[i] = Step{RecipeID: recipeID, Idx: i, Body: string(body)}
	}
	return tx.Create(&steps).Error
}
