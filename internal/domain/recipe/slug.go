package recipe

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const (
	fallbackSlug = "recipe"
	maxSlugLen   = 100 // fits the slug column with room for a -N suffix
)

var quoteStripper = strings.NewReplacer(
	"'", "", "\"", "", "`", "",
	"‘", "", "’", "", "“", "", "”", "",
)

// Slugify reduces a title to lower-case ASCII letters, digits and single hyphens.
func Slugify(title string) string {
	s := quoteStripper.Replace(strings.ToLower(strings.TrimSpace(title)))

	// Accents are folded on purpose so "Crème" becomes "creme", not "cr-me".
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	slug := b.String()
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

// allocateSlug returns the first free slug among base, base-2, base-3... for the
// owner. excludeID skips the recipe being edited.
func allocateSlug(tx *gorm.DB, ownerID *int64, title string, excludeID int64) (string, error) {
	base := Slugify(title)
	candidate := base

	for n := 2; ; n++ {
		q := scopeOwner(tx.Model(&Recipe{}), ownerID).Where("slug = ?", candidate)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}

		var count int64
		if err := q.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

// scopeOwner compares owner_id with IS NULL for global rows.
func scopeOwner(db *gorm.DB, ownerID *int64) *gorm.DB {
	if ownerID == nil {
		return db.Where("owner_id IS NULL")
	}
	return db.Where("owner_id = ?", *ownerID)
}
