package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFindOrCreate(t *testing.T) {
	db := setupTestDB(t)
	owner := ptr(int64(1))

	err := db.Transaction(func(tx *gorm.DB) error {
		id, err := findOrCreate[Course](tx, owner, "   ")
		require.NoError(t, err)
		assert.Nil(t, id)

		first, err := findOrCreate[Course](tx, owner, " Dessert ")
		require.NoError(t, err)
		require.NotNil(t, first)

		again, err := findOrCreate[Course](tx, owner, "Dessert")
		require.NoError(t, err)
		assert.Equal(t, *first, *again)

		global, err := findOrCreate[Course](tx, nil, "Dessert")
		require.NoError(t, err)
		assert.NotEqual(t, *first, *global)

		globalAgain, err := findOrCreate[Course](tx, nil, "Dessert")
		require.NoError(t, err)
		assert.Equal(t, *global, *globalAgain)

		other, err := findOrCreate[Course](tx, ptr(int64(2)), "Dessert")
		require.NoError(t, err)
		assert.NotEqual(t, *first, *other)
		return nil
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&Course{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestResolveTagIDs_RepeatedNames(t *testing.T) {
	db := setupTestDB(t)
	owner := ptr(int64(1))

	var ids []int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		ids, err = resolveTagIDs(tx, owner, []string{"quick", "", "  ", "quick", "vegan"})
		return err
	})
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, ids[0], ids[1])
	assert.NotEqual(t, ids[0], ids[2])

	var count int64
	require.NoError(t, db.Model(&Tag{}).Where("name = ?", "quick").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveTaxonomyID_ExplicitID(t *testing.T) {
	db := setupTestDB(t)
	owner := ptr(int64(1))

	mine := Cuisine{OwnerID: owner, Name: "Thai"}
	global := Cuisine{Name: "Italian"}
	theirs := Cuisine{OwnerID: ptr(int64(2)), Name: "Greek"}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&global).Error)
	require.NoError(t, db.Create(&theirs).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		id, err := resolveTaxonomyID[Cuisine](tx, owner, &mine.ID, ptr("ignored"))
		require.NoError(t, err)
		assert.Equal(t, mine.ID, *id)

		id, err = resolveTaxonomyID[Cuisine](tx, owner, &global.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, global.ID, *id)

		_, err = resolveTaxonomyID[Cuisine](tx, owner, &theirs.ID, nil)
		assert.ErrorIs(t, err, ErrInvalidReference)

		id, err = resolveTaxonomyID[Cuisine](tx, owner, nil, nil)
		require.NoError(t, err)
		assert.Nil(t, id)
		return nil
	})
	require.NoError(t, err)
}
